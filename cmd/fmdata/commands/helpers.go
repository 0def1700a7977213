package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/viper"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/fmdata-io/fmdata-client/pkg/fmclient"
	"github.com/fmdata-io/fmdata-client/pkg/fmdata"
)

// Output formats.
const (
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)

// createClient builds a client from viper configuration, prompting for
// the password when none is configured, and logs in.
func createClient(ctx context.Context) (fmdata.Client, error) {
	password := viper.GetString("password")
	if password == "" {
		prompted, err := promptPassword()
		if err != nil {
			return nil, err
		}

		password = prompted
	}

	config := &fmdata.Config{
		Host:     viper.GetString("host"),
		Database: viper.GetString("database"),
		Layout:   viper.GetString("layout"),
		Username: viper.GetString("username"),
		Password: password,
	}

	client, err := fmclient.New(config)
	if err != nil {
		return nil, err
	}

	err = client.Login(ctx)
	if err != nil {
		return nil, err
	}

	return client, nil
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")

	data, err := term.ReadPassword(int(os.Stdin.Fd()))

	fmt.Fprintln(os.Stderr)

	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}

	return string(data), nil
}

// renderEncoded writes data as JSON or YAML per the configured output
// format. It returns false when the format is tabular and the caller
// should render a table instead.
func renderEncoded(data interface{}) (bool, error) {
	switch viper.GetString("output") {
	case OutputFormatJSON:
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		err := encoder.Encode(data)
		if err != nil {
			return true, fmt.Errorf("encoding to JSON: %w", err)
		}

		return true, nil
	case OutputFormatYAML:
		encoder := yaml.NewEncoder(os.Stdout)

		err := encoder.Encode(data)
		if err != nil {
			return true, fmt.Errorf("encoding to YAML: %w", err)
		}

		return true, nil
	default:
		return false, nil
	}
}

// recordRow flattens a record for encoded output.
func recordRow(record *fmdata.Record) map[string]interface{} {
	row := map[string]interface{}{
		"recordId": record.ID(),
		"modId":    record.ModificationID(),
	}

	for name, value := range record.Fields() {
		row[name] = value
	}

	return row
}

// sortedFieldNames returns the union of field names across records, in
// stable order for table headers.
func sortedFieldNames(records []*fmdata.Record) []string {
	seen := map[string]struct{}{}

	var names []string

	for _, record := range records {
		for name := range record.Fields() {
			if _, ok := seen[name]; !ok {
				seen[name] = struct{}{}

				names = append(names, name)
			}
		}
	}

	sort.Strings(names)

	return names
}

func fieldString(record *fmdata.Record, name string) string {
	value, err := record.Field(name)
	if err != nil || value == nil {
		return ""
	}

	return fmt.Sprintf("%v", value)
}
