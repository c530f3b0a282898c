// internal/vault/vault.go
//
// Vault client for `vault:` config values.
//
// Context
// -------
//   - Thin, concurrency-safe wrapper around the HashiCorp Vault Go SDK.
//   - The config loader swaps every `vault:<mount/path>#<key>` value for
//     the secret it names; nothing else in the app talks to Vault.
//   - Resolved values are cached per reference for the process lifetime,
//     so a config Reload() does not hammer the server.
//
// Environment expectations
// ------------------------
// • VAULT_ADDR   – scheme and host of the Vault server.
// • VAULT_TOKEN  – access token (falls back to ~/.vault-token).

package vault

import (
	"context"
	"fmt"
	"strings"
	"sync"

	vault "github.com/hashicorp/vault/api"
)

// Client is safe for concurrent use.  Zero value is invalid; use New.
type Client struct {
	api *vault.Client

	cacheMu sync.RWMutex
	cache   map[string]string // reference → resolved value
}

// New constructs a client from the standard VAULT_* environment.
func New(_ context.Context) (*Client, error) {
	api, err := vault.NewClient(vault.DefaultConfig())
	if err != nil {
		return nil, err
	}
	return &Client{api: api, cache: map[string]string{}}, nil
}

// Resolve fetches the secret a `<mount/path>#<key>` reference names
// from a KV-v2 mount.
func (c *Client) Resolve(ctx context.Context, ref string) (string, error) {
	c.cacheMu.RLock()
	if v, ok := c.cache[ref]; ok {
		c.cacheMu.RUnlock()
		return v, nil
	}
	c.cacheMu.RUnlock()

	path, key, ok := strings.Cut(ref, "#")
	if !ok {
		return "", fmt.Errorf("vault: reference %q lacks a #key suffix", ref)
	}
	mount, rel, ok := strings.Cut(path, "/")
	if !ok {
		return "", fmt.Errorf("vault: reference %q lacks a mount prefix", ref)
	}

	secret, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", err
	}
	raw, ok := secret.Data[key]
	if !ok {
		return "", fmt.Errorf("vault: key %q absent at %q", key, path)
	}
	val, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("vault: key %q at %q is not a string", key, path)
	}

	c.cacheMu.Lock()
	c.cache[ref] = val
	c.cacheMu.Unlock()
	return val, nil
}
