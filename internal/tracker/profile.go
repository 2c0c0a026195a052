package tracker

import (
	"context"
	"fmt"

	"github.com/julianstephens/wellmeing/internal/codec"
	"github.com/julianstephens/wellmeing/internal/models"
)

// UpdateProfile sets the user's name and bio. A nil pointer leaves the field
// unchanged; an empty value clears it.
func (t *Tracker) UpdateProfile(ctx context.Context, name, bio *string) error {
	var cleanName, cleanBio string
	var err error
	if name != nil {
		if cleanName, err = models.ValidateUsername(*name); err != nil {
			return err
		}
	}
	if bio != nil {
		if cleanBio, err = models.ValidateBio(*bio); err != nil {
			return err
		}
	}

	err = t.update(ctx, func(doc map[string]any) error {
		setOrClear(doc, codec.FieldName, name, cleanName)
		setOrClear(doc, codec.FieldBio, bio, cleanBio)
		return nil
	})
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

func setOrClear(doc map[string]any, field string, given *string, value string) {
	switch {
	case given == nil:
	case value == "":
		delete(doc, field)
	default:
		doc[field] = value
	}
}
