package cli

import (
	"errors"
	"fmt"

	"github.com/julianstephens/wellmeing/internal/keyring"
)

// KeySetCmd stores the OpenAI API key in the OS keyring.
type KeySetCmd struct {
	Key string `arg:"" optional:"" help:"API key. Prompted for when omitted."`
}

func (c *KeySetCmd) Run(ctx *Context) error {
	key := c.Key
	if key == "" {
		var err error
		if key, err = secretPrompt("OpenAI API key"); err != nil {
			return err
		}
	}
	if err := keyring.SetAPIKey(key); err != nil {
		return err
	}
	ctx.println("✓ API key stored in the OS keyring")
	return nil
}

// KeyShowCmd prints the stored API key, masked.
type KeyShowCmd struct{}

func (c *KeyShowCmd) Run(ctx *Context) error {
	key, err := keyring.GetAPIKey()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no API key found in keyring, use 'wellmeing key set' to store one")
		}
		return err
	}
	ctx.println(keyring.Mask(key))
	return nil
}

// KeyDeleteCmd removes the API key from the OS keyring.
type KeyDeleteCmd struct{}

func (c *KeyDeleteCmd) Run(ctx *Context) error {
	if err := keyring.DeleteAPIKey(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no API key found in keyring")
		}
		return fmt.Errorf("failed to delete API key: %w", err)
	}
	ctx.println("✓ API key removed from the OS keyring")
	return nil
}
