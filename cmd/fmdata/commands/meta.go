package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fmdata-io/fmdata-client/pkg/fmdata"
)

// NewLayoutsCommand creates the layouts command.
func NewLayoutsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "layouts",
		Short: "List layouts",
		Long:  "List the layouts of the configured database",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Logout(ctx)
			}()

			layouts, err := client.Metadata().Layouts(ctx)
			if err != nil {
				return err
			}

			done, err := renderEncoded(layouts)
			if done {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Name", "Folder")

			appendLayoutItems(table, layouts, "")

			_ = table.Render()

			return nil
		},
	}
}

func appendLayoutItems(table *tablewriter.Table, items []fmdata.LayoutItem, folder string) {
	for _, item := range items {
		if item.IsFolder {
			appendLayoutItems(table, item.Layouts, item.Name)

			continue
		}

		_ = table.Append(item.Name, folder)
	}
}

// NewScriptsCommand creates the scripts listing command.
func NewScriptsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scripts",
		Short: "List scripts",
		Long:  "List the scripts of the configured database",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Logout(ctx)
			}()

			scripts, err := client.Metadata().Scripts(ctx)
			if err != nil {
				return err
			}

			done, err := renderEncoded(scripts)
			if done {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Name", "Folder")

			appendScriptItems(table, scripts, "")

			_ = table.Render()

			return nil
		},
	}
}

func appendScriptItems(table *tablewriter.Table, items []fmdata.ScriptItem, folder string) {
	for _, item := range items {
		if item.IsFolder {
			appendScriptItems(table, item.Scripts, item.Name)

			continue
		}

		_ = table.Append(item.Name, folder)
	}
}

// NewDatabasesCommand creates the databases command.
func NewDatabasesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "databases",
		Short: "List databases",
		Long:  "List the databases hosted by the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Logout(ctx)
			}()

			databases, err := client.Metadata().Databases(ctx)
			if err != nil {
				return err
			}

			done, err := renderEncoded(databases)
			if done {
				return err
			}

			for _, name := range databases {
				_, _ = fmt.Fprintf(os.Stdout, "%s\n", name)
			}

			return nil
		},
	}
}

// NewInfoCommand creates the info command.
func NewInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show server information",
		Long:  "Show product and formatting information of the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Logout(ctx)
			}()

			info, err := client.Metadata().ProductInfo(ctx)
			if err != nil {
				return err
			}

			done, err := renderEncoded(info)
			if done {
				return err
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.Header("Property", "Value")

			_ = table.Append("Name", info.Name)
			_ = table.Append("Version", info.Version)
			_ = table.Append("Build Date", info.BuildDate)
			_ = table.Append("Date Format", info.DateFormat)
			_ = table.Append("Time Format", info.TimeFormat)
			_ = table.Append("Timestamp Format", info.TimeStampFormat)

			_ = table.Render()

			return nil
		},
	}
}

// NewScriptCommand creates the script run command.
func NewScriptCommand() *cobra.Command {
	var param string

	cmd := &cobra.Command{
		Use:   "script SCRIPT_NAME",
		Short: "Run a script",
		Long:  "Run a script in the context of the configured layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Logout(ctx)
			}()

			result, err := client.Scripts().Perform(ctx, args[0], param)
			if err != nil {
				return err
			}

			done, err := renderEncoded(result)
			if done {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Script error: %d\n", result.Error)

			if result.Result != "" {
				_, _ = fmt.Fprintf(os.Stdout, "Script result: %s\n", result.Result)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&param, "param", "p", "", "script parameter")

	return cmd
}

// NewGlobalsCommand creates the globals command.
func NewGlobalsCommand() *cobra.Command {
	var fields map[string]string

	cmd := &cobra.Command{
		Use:   "globals",
		Short: "Set global fields",
		Long:  "Set session-scoped global field values (Table::field=value)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Logout(ctx)
			}()

			globals := make(map[string]interface{}, len(fields))
			for name, value := range fields {
				globals[name] = value
			}

			err = client.Globals().Set(ctx, globals)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Set %d global field(s)\n", len(globals))

			return nil
		},
	}

	cmd.Flags().StringToStringVarP(&fields, "field", "f", nil, "global field values (Table::field=value)")

	return cmd
}
