// Copyright 2019 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// gqlexec runs a single GraphQL operation against a schema and a data
// fixture and prints the JSON response.
//
// The fixture is a YAML or JSON document whose top-level keys name the root
// types ("Query" and, if the schema has one, "Mutation"). Objects nested below
// the roots are served field by field; objects in interface or union positions
// name their concrete type with a "__typename" key.
package main

import (
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	stdlog "log"
	"os"
	"strings"

	"github.com/go-logr/stdr"
	"github.com/spf13/cobra"
	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
	"zombiezen.com/go/graphql-engine/graphql"
	"zombiezen.com/go/graphql-engine/internal/log"
)

type options struct {
	schemaPath     string
	dataPath       string
	queryPath      string
	operation      string
	vars           string
	skipValidation bool
	concurrent     bool
	verbose        int
}

func main() {
	if err := newRootCommand(os.Stdin, os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(stdin io.Reader, stdout io.Writer) *cobra.Command {
	opts := new(options)
	cmd := &cobra.Command{
		Use:           "gqlexec --schema FILE [--data FILE] --query FILE|-",
		Short:         "Run a GraphQL operation against a data fixture",
		Example:       "gqlexec --schema starwars.graphql --data starwars.yaml --query hero.graphql",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			stdr.SetVerbosity(opts.verbose)
			logger := stdr.New(stdlog.New(cmd.ErrOrStderr(), "", stdlog.LstdFlags))
			ctx := log.WithLogger(cmd.Context(), logger)
			err := run(ctx, opts, stdin, stdout)
			if err != nil && !xerrors.Is(err, errQueryFailed) {
				logger.Error(err, "gqlexec failed")
			}
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.schemaPath, "schema", "", "path to the schema definition (SDL)")
	f.StringVar(&opts.dataPath, "data", "", "path to a YAML or JSON data fixture")
	f.StringVar(&opts.queryPath, "query", "-", "path to the query document or - for stdin")
	f.StringVar(&opts.operation, "operation", "", "name of the operation to run")
	f.StringVar(&opts.vars, "vars", "", "variables as a JSON object")
	f.BoolVar(&opts.skipValidation, "skip-validation", false, "do not validate the query before running it")
	f.BoolVar(&opts.concurrent, "concurrent", false, "resolve list elements concurrently")
	f.CountVarP(&opts.verbose, "verbose", "v", "increase log verbosity (repeatable)")
	cmd.MarkFlagRequired("schema")
	return cmd
}

// errQueryFailed is returned after a response containing errors was written.
var errQueryFailed = xerrors.New("query failed")

func run(ctx context.Context, opts *options, stdin io.Reader, stdout io.Writer) error {
	schemaSource, err := ioutil.ReadFile(opts.schemaPath)
	if err != nil {
		return xerrors.Errorf("read schema: %w", err)
	}
	schema, err := graphql.ParseSchema(string(schemaSource))
	if err != nil {
		return err
	}
	data, err := readFixture(opts.dataPath)
	if err != nil {
		return err
	}
	query, mutation, err := rootResolvers(schema, data)
	if err != nil {
		return err
	}
	e, err := graphql.NewExecutor(schema, query, mutation, &graphql.ExecutorOptions{
		SkipValidation:  opts.skipValidation,
		ConcurrentLists: opts.concurrent,
	})
	if err != nil {
		return err
	}

	var queryText []byte
	if opts.queryPath == "-" {
		queryText, err = ioutil.ReadAll(stdin)
	} else {
		queryText, err = ioutil.ReadFile(opts.queryPath)
	}
	if err != nil {
		return xerrors.Errorf("read query: %w", err)
	}
	vars, err := parseVariables(opts.vars)
	if err != nil {
		return err
	}

	result, queryErr := e.Query(ctx, string(queryText), vars, opts.operation)
	if xerrors.Is(queryErr, context.Canceled) || xerrors.Is(queryErr, context.DeadlineExceeded) {
		return queryErr
	}
	out, err := json.MarshalIndent(newResponse(result, queryErr), "", "  ")
	if err != nil {
		return xerrors.Errorf("write response: %w", err)
	}
	out = append(out, '\n')
	if _, err := stdout.Write(out); err != nil {
		return xerrors.Errorf("write response: %w", err)
	}
	if queryErr != nil {
		return errQueryFailed
	}
	return nil
}

// readFixture decodes the data fixture at path. JSON documents are valid
// YAML, so both are read with the YAML decoder. An empty path yields an
// empty fixture.
func readFixture(path string) (map[string]interface{}, error) {
	data := make(map[string]interface{})
	if path == "" {
		return data, nil
	}
	source, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, xerrors.Errorf("read data: %w", err)
	}
	if err := yaml.Unmarshal(source, &data); err != nil {
		return nil, xerrors.Errorf("read data %s: %w", path, err)
	}
	return data, nil
}

func rootResolvers(schema *graphql.Schema, data map[string]interface{}) (query, mutation graphql.Resolver, err error) {
	root := func(typ *graphql.Type) (graphql.Resolver, error) {
		var fields map[string]interface{}
		switch v := data[typ.Name()].(type) {
		case nil:
		case map[string]interface{}:
			fields = v
		default:
			return nil, xerrors.Errorf("read data: %s must be a mapping", typ.Name())
		}
		return graphql.DataResolver(schema, typ.Name(), fields)
	}
	query, err = root(schema.QueryType())
	if err != nil {
		return nil, nil, err
	}
	if typ := schema.MutationType(); typ != nil {
		mutation, err = root(typ)
		if err != nil {
			return nil, nil, err
		}
	}
	return query, mutation, nil
}

func parseVariables(s string) (map[string]interface{}, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var vars map[string]interface{}
	if err := dec.Decode(&vars); err != nil {
		return nil, xerrors.Errorf("parse variables: %w", err)
	}
	return vars, nil
}
