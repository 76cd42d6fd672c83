package keywords

import (
	"errors"
	"strings"

	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/config"
	"github.com/fnlcr-bids-sdsi/candle-wrappers/internal/utils"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended (with an underscore) to upper-cased keyword names to
// form the environment variables the submission script exports.
const EnvPrefix = "CANDLE_KEYWORD"

// LookupFunc returns the raw value of a keyword and whether it was set.
type LookupFunc func(name string) (string, bool)

// EnvLookup reads keywords from CANDLE_KEYWORD_<NAME> environment variables.
// Empty variables count as unset.
func EnvLookup() LookupFunc {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	return func(name string) (string, bool) {
		if !v.IsSet(name) {
			return "", false
		}
		return v.GetString(name), true
	}
}

// MapLookup reads keywords from m. Blank values count as unset.
func MapLookup(m map[string]string) LookupFunc {
	return func(name string) (string, bool) {
		s, ok := m[name]
		if !ok || strings.TrimSpace(s) == "" {
			return "", false
		}
		return s, true
	}
}

// Chain consults each lookup in turn and returns the first value found.
func Chain(lookups ...LookupFunc) LookupFunc {
	return func(name string) (string, bool) {
		for _, l := range lookups {
			if l == nil {
				continue
			}
			if s, ok := l(name); ok {
				return s, true
			}
		}
		return "", false
	}
}

// Resolve reads every keyword of the site schema through lookup, substitutes
// defaults for unset ones and validates the rest. All failures are reported
// together.
func Resolve(site config.Site, lookup LookupFunc) (*Keywords, error) {
	k := &Keywords{}
	var errs []error

	for _, f := range Schema(site) {
		raw, ok := lookup(f.Name)
		if !ok {
			if f.Required {
				errs = append(errs, &KeywordError{
					Keyword: f.Name,
					Reason:  "must be set",
					Err:     ErrMissingKeyword,
				})
				continue
			}
			def := f.Default()
			if s := cast.ToString(def); s != "" {
				utils.PrintWarning("Keyword %s not set; using default %s", utils.StyleName(f.Name), utils.StyleInfo(s))
				k.Defaulted = append(k.Defaulted, f.Name)
			}
			f.set(k, def)
			continue
		}

		v, err := typed(f, raw)
		if err == nil && f.Validate != nil {
			v, err = f.Validate(v)
		}
		if err != nil {
			errs = append(errs, keywordError(f.Name, raw, err))
			continue
		}
		f.set(k, v)
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	utils.PrintDebug("Resolved %d keywords for site %s", len(k.Rows()), utils.StyleName(site.Name))
	return k, nil
}

// typed casts a raw string to the field's kind.
func typed(f Field, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if f.Kind == KindInt {
		digits, ok := decimal(raw)
		n, err := cast.ToIntE(digits)
		if !ok || err != nil {
			return nil, invalid("must be an integer")
		}
		return n, nil
	}
	return raw, nil
}

// decimal strips leading zeros so cast reads "010" as ten rather than
// octal. Anything but an optionally signed run of digits is rejected.
func decimal(raw string) (string, bool) {
	sign := ""
	if strings.HasPrefix(raw, "-") || strings.HasPrefix(raw, "+") {
		sign, raw = raw[:1], raw[1:]
	}
	if raw == "" || strings.Trim(raw, "0123456789") != "" {
		return "", false
	}
	if trimmed := strings.TrimLeft(raw, "0"); trimmed != "" {
		raw = trimmed
	} else {
		raw = "0"
	}
	return sign + raw, true
}

func keywordError(name, raw string, err error) error {
	ke := &KeywordError{Keyword: name, Value: raw, Reason: err.Error(), Err: ErrInvalidValue}
	var r *reason
	if errors.As(err, &r) {
		ke.Err = r.err
	}
	return ke
}
