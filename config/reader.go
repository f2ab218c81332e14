package config

import (
	"bytes"
	"io"

	"github.com/a8m/envsubst"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"github.com/yosuke-furukawa/json5/encoding/json5"

	"github.com/eqf-vio/msceqf/logging"
	"github.com/eqf-vio/msceqf/utils"
)

// Read reads options from the given file. Environment variables in the file are substituted
// before parsing.
func Read(filePath string, logger logging.Logger) (*Options, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read options from %q", filePath)
	}
	return FromReader(filePath, bytes.NewReader(buf), logger)
}

// FromReader reads options in JSON5 from the given reader and specifies where, if applicable,
// the file the reader originated from.
func FromReader(originalPath string, r io.Reader, logger logging.Logger) (*Options, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var opts Options
	if err := json5.Unmarshal(buf, &opts); err != nil {
		return nil, errors.Wrapf(err, "cannot parse options from %q", originalPath)
	}
	return process(&opts, originalPath, logger)
}

// FromAttributes decodes options from an attribute map, as found nested in a larger JSON
// document. Unknown attributes are logged and ignored.
func FromAttributes(attributes map[string]interface{}, logger logging.Logger) (*Options, error) {
	for _, section := range []string{"state", "propagator"} {
		if v, ok := attributes[section]; ok {
			if _, ok := v.(map[string]interface{}); !ok {
				return nil, errors.Wrapf(utils.NewUnexpectedTypeError(map[string]interface{}{}, v), "attribute %q", section)
			}
		}
	}
	var opts Options
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           &opts,
		Metadata:         &md,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(attributes); err != nil {
		return nil, errors.Wrap(err, "cannot decode options")
	}
	for _, key := range md.Unused {
		logger.Warnw("unused option attribute", "attribute", key)
	}
	return process(&opts, "attributes", logger)
}

func process(opts *Options, path string, logger logging.Logger) (*Options, error) {
	opts.applyDefaults(logger)
	if err := opts.Validate(path); err != nil {
		return nil, err
	}
	return opts, nil
}
