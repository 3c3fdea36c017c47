package parse

import (
	"bytes"
	"context"
	"os"

	"gopkg.in/yaml.v3"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/miropt/compiler/tp"
)

type (
	// Profile is a call count dump collected by the runtime.
	Profile struct {
		Calls []ProfileCall
	}

	ProfileCall struct {
		Method   string
		Receiver tp.Type
		Count    int
	}

	profileDoc struct {
		Calls []struct {
			Method   string `yaml:"method"`
			Receiver string `yaml:"receiver"`
			Count    int    `yaml:"count"`
		} `yaml:"calls"`
	}
)

func ParseProfileFile(ctx context.Context, name string) (*Profile, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read profile", "size", len(data), "name", name)

	return ParseProfile(data)
}

func ParseProfile(text []byte) (*Profile, error) {
	var doc profileDoc

	d := yaml.NewDecoder(bytes.NewReader(text))
	d.KnownFields(true)

	err := d.Decode(&doc)
	if err != nil {
		return nil, errors.Wrap(err, "decode yaml")
	}

	p := &Profile{}

	for i, c := range doc.Calls {
		if c.Method == "" {
			return nil, errors.New("call %d: missing method", i)
		}

		if c.Count < 0 {
			return nil, errors.New("call %d (%v): negative count", i, c.Method)
		}

		var recv tp.Type = tp.Any{}

		if c.Receiver != "" {
			recv, err = tp.Parse(c.Receiver)
			if err != nil {
				return nil, errors.Wrap(err, "call %d (%v): receiver", i, c.Method)
			}
		}

		p.Calls = append(p.Calls, ProfileCall{Method: c.Method, Receiver: recv, Count: c.Count})
	}

	return p, nil
}
