package cmd

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

// Output formats accepted by the --format flags.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// encode writes v to w as JSON or YAML. An indent of zero or less selects
// the compact form.
func encode(ctx context.Context, w io.Writer, format string, indent int, v any) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case formatYAML:
		opts := []yaml.EncodeOption{yaml.Flow(true)}
		if indent > 0 {
			opts = []yaml.EncodeOption{yaml.Indent(indent), yaml.IndentSequence(true)}
		}

		data, err = yaml.MarshalContext(ctx, v, opts...)
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

	default:
		if indent > 0 {
			data, err = json.MarshalIndent(v, "", strings.Repeat(" ", indent))
		} else {
			data, err = json.Marshal(v)
		}

		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}
	}

	if len(data) == 0 || data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}

	_, err = w.Write(data)

	return err
}
