package extensions

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// decodeOptions fills out from a free-form options map, as read from the
// catalog or a scenario. Unknown keys are an error.
func decodeOptions(kind string, options map[string]any, out any) error {
	if len(options) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("%s options: %w", kind, err)
	}
	if err := dec.Decode(options); err != nil {
		return fmt.Errorf("%s options: %w", kind, err)
	}
	return nil
}
