// Package base carries the pieces shared by every CLI command: the logger,
// the UI, client construction from flags and environment, and the repeatable
// field flags.
package base

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"

	"github.com/moonstream-to/entity_sdk_go/internal/httpx"
	"github.com/moonstream-to/entity_sdk_go/pkg/entity"
)

// Command is embedded by every CLI command.
type Command struct {
	Log hclog.Logger
	UI  cli.Ui
}

// PrintJSON renders v to the UI as indented JSON.
func (c *Command) PrintJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	c.UI.Output(string(data))
	return nil
}

// ClientFlags holds the connection flags common to every remote command. The
// token falls back to ENTITY_ACCESS_TOKEN and the URL to ENTITY_API_URL, so
// the flags stay optional in configured environments.
type ClientFlags struct {
	Token   string
	APIURL  string
	Timeout int
}

// Register adds the connection flags to fs.
func (f *ClientFlags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.Token, "token", "", "Entity API access token (defaults to $"+entity.EnvAccessToken+")")
	fs.StringVar(&f.APIURL, "api_url", "", "Entity API URL (defaults to $"+entity.EnvAPIURL+" or the production API)")
	fs.IntVar(&f.Timeout, "timeout", 0, "request timeout in seconds (defaults to $"+entity.EnvRequestTimeout+" or 10)")
}

// Client builds an entity.Client from the flags and environment.
func (f *ClientFlags) Client() (*entity.Client, error) {
	token := f.Token
	if token == "" {
		token = strings.TrimSpace(os.Getenv(entity.EnvAccessToken))
	}
	apiURL := f.APIURL
	if apiURL == "" {
		apiURL = strings.TrimSpace(os.Getenv(entity.EnvAPIURL))
	}

	var opts []httpx.Option
	if f.Timeout > 0 {
		opts = append(opts, httpx.WithTimeout(time.Duration(f.Timeout)*time.Second))
	} else {
		timeout, err := entity.TimeoutFromEnv()
		if err != nil {
			return nil, err
		}
		if timeout > 0 {
			opts = append(opts, httpx.WithTimeout(timeout))
		}
	}

	return entity.New(token, apiURL, opts...)
}

// FieldMapsFlag collects repeatable JSON-object flags, one field map per
// occurrence.
type FieldMapsFlag struct {
	Fields []entity.FieldMap
}

func (f *FieldMapsFlag) String() string {
	if f == nil || len(f.Fields) == 0 {
		return ""
	}
	data, _ := json.Marshal(f.Fields)
	return string(data)
}

// Set parses one JSON object literal.
func (f *FieldMapsFlag) Set(raw string) error {
	var fm entity.FieldMap
	if err := json.Unmarshal([]byte(raw), &fm); err != nil {
		return fmt.Errorf("field should be a JSON object: %w", err)
	}
	f.Fields = append(f.Fields, fm)
	return nil
}

// Merged flattens all collected maps into one, later occurrences winning.
func (f *FieldMapsFlag) Merged() entity.FieldMap {
	merged := entity.FieldMap{}
	for _, fm := range f.Fields {
		for k, v := range fm {
			merged[k] = v
		}
	}
	return merged
}

// StringsFlag collects repeatable plain-string flags (search terms).
type StringsFlag struct {
	Values []string
}

func (f *StringsFlag) String() string {
	if f == nil {
		return ""
	}
	return strings.Join(f.Values, ",")
}

func (f *StringsFlag) Set(raw string) error {
	f.Values = append(f.Values, raw)
	return nil
}
