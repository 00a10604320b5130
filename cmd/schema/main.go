package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/jessevdk/go-flags"

	"github.com/lushtech/eldercare-web/pkg/config"
	"github.com/lushtech/eldercare-web/pkg/domain"
)

type options struct {
	Kind   string `short:"k" long:"kind" choice:"config" choice:"settings" default:"config" description:"schema to generate"`
	Output string `short:"o" long:"output" default:"schema.json" description:"output file"`
}

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		log.Fatalf("%v", err)
	}

	data, err := generate(opts.Kind)
	if err != nil {
		log.Fatalf("failed to generate %s schema: %v", opts.Kind, err)
	}

	if err := os.WriteFile(opts.Output, data, 0o600); err != nil { //nolint:gosec // schema file is not sensitive
		log.Fatalf("failed to write schema file: %v", err)
	}
	fmt.Printf("%s schema generated at %s\n", opts.Kind, opts.Output)
}

// parseOptions parses cli arguments, positional arguments are not accepted
func parseOptions(args []string) (options, error) {
	var opts options
	rest, err := flags.ParseArgs(&opts, args)
	if err != nil {
		return options{}, err
	}
	if len(rest) > 0 {
		return options{}, fmt.Errorf("unexpected arguments %v, use -o to set the output file", rest)
	}
	return opts, nil
}

// generate returns the indented json schema of the requested kind
func generate(kind string) ([]byte, error) {
	var schema *jsonschema.Schema
	switch kind {
	case "config":
		s, err := config.GenerateSchema()
		if err != nil {
			return nil, err
		}
		schema = s
	case "settings":
		reflector := jsonschema.Reflector{DoNotReference: true}
		schema = reflector.Reflect(&domain.SettingsDTO{})
	default:
		return nil, fmt.Errorf("unknown schema kind %q", kind)
	}
	return json.MarshalIndent(schema, "", "  ")
}
