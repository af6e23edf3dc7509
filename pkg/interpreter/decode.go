package interpreter

import (
	"fmt"

	"github.com/aretw0/companion/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// Decode converts one raw descriptor into its typed variant.
// It never fails: missing or mistyped required fields yield domain.Invalid and an
// unexpected discriminant yields domain.Unrecognized.
func Decode(raw map[string]any) domain.Action {
	kind, _ := raw[domain.KeyAction].(string)

	switch kind {
	case domain.KindOpenApp:
		var a domain.OpenApp
		if missing := decodeInto(raw, &a, func() []string {
			return requireFields(field{"app", a.App})
		}); missing != nil {
			return domain.Invalid{Action: kind, Missing: missing}
		}
		return a

	case domain.KindSystemTask:
		var a domain.SystemTask
		if missing := decodeInto(raw, &a, func() []string {
			return requireFields(field{"task", a.Task})
		}); missing != nil {
			return domain.Invalid{Action: kind, Missing: missing}
		}
		return a

	case domain.KindCreateFile:
		var a domain.CreateFile
		if missing := decodeInto(raw, &a, func() []string {
			return requireFields(field{"type", a.Type}, field{"topic", a.Topic})
		}); missing != nil {
			return domain.Invalid{Action: kind, Missing: missing}
		}
		return a

	case domain.KindQuit:
		return domain.Quit{}

	case domain.KindUnknown:
		return domain.Unknown{}

	case domain.KindError:
		msg, ok := raw["message"].(string)
		if !ok || msg == "" {
			if v, present := raw["message"]; present && v != nil {
				msg = fmt.Sprint(v)
			} else {
				msg = "Unknown error"
			}
		}
		return domain.Failure{Message: msg}
	}

	return domain.Unrecognized{Action: kind}
}

type field struct {
	name  string
	value string
}

func requireFields(fields ...field) []string {
	var missing []string
	for _, f := range fields {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// decodeInto fills out from raw and returns the missing required fields.
// Values of the wrong type leave their field empty, so they count as missing.
func decodeInto(raw map[string]any, out any, check func() []string) []string {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "mapstructure",
	})
	if err == nil {
		_ = dec.Decode(raw)
	}
	return check()
}
