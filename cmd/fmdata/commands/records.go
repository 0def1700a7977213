package commands

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/fmdata-io/fmdata-client/pkg/fmdata"
)

// NewRecordsCommand creates the records command group.
func NewRecordsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Work with layout records",
		Long:  "List, get, create, edit, and delete records on the configured layout",
	}

	cmd.AddCommand(newRecordsListCommand())
	cmd.AddCommand(newRecordsGetCommand())
	cmd.AddCommand(newRecordsCreateCommand())
	cmd.AddCommand(newRecordsSetCommand())
	cmd.AddCommand(newRecordsDeleteCommand())

	return cmd
}

func newRecordsListCommand() *cobra.Command {
	var (
		offset int
		limit  int
		sortBy string
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records",
		Long:  "List records of the configured layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Logout(ctx)
			}()

			opts := &fmdata.ListOptions{Offset: offset, Limit: limit}
			if sortBy != "" {
				opts.Sort = parseSortFields(sortBy)
			}

			foundset, err := client.Records().List(ctx, opts)
			if err != nil {
				return err
			}

			records := foundset.Records()

			if all {
				records, err = foundset.All(ctx)
				if err != nil {
					return err
				}
			}

			return outputRecords(records, foundset.TotalCount())
		},
	}

	cmd.Flags().IntVar(&offset, "offset", 0, "1-based starting offset")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size")
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort fields (field[:descend],...)")
	cmd.Flags().BoolVar(&all, "all", false, "fetch every page")

	return cmd
}

func newRecordsGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get RECORD_ID",
		Short: "Get one record",
		Long:  "Get a record of the configured layout by its record id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid record id %q: %w", args[0], err)
			}

			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Logout(ctx)
			}()

			record, err := client.Records().Get(ctx, id)
			if err != nil {
				return err
			}

			return outputRecord(record)
		},
	}
}

func newRecordsCreateCommand() *cobra.Command {
	var fields map[string]string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a record",
		Long:  "Create a record on the configured layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Logout(ctx)
			}()

			data := make(map[string]interface{}, len(fields))
			for name, value := range fields {
				data[name] = value
			}

			id, err := client.Records().Create(ctx, data)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Created record %d\n", id)

			return nil
		},
	}

	cmd.Flags().StringToStringVarP(&fields, "field", "f", nil, "field values (name=value)")

	return cmd
}

func newRecordsSetCommand() *cobra.Command {
	var fields map[string]string

	cmd := &cobra.Command{
		Use:   "set RECORD_ID",
		Short: "Edit a record",
		Long:  "Set field values on an existing record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid record id %q: %w", args[0], err)
			}

			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Logout(ctx)
			}()

			record, err := client.Records().Get(ctx, id)
			if err != nil {
				return err
			}

			for name, value := range fields {
				err = record.SetField(name, value)
				if err != nil {
					return err
				}
			}

			err = record.Commit(ctx)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Updated record %d (modification %d)\n", record.ID(), record.ModificationID())

			return nil
		},
	}

	cmd.Flags().StringToStringVarP(&fields, "field", "f", nil, "field values (name=value)")

	return cmd
}

func newRecordsDeleteCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete RECORD_ID",
		Short: "Delete a record",
		Long:  "Delete a record of the configured layout by its record id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid record id %q: %w", args[0], err)
			}

			if !force {
				_, _ = fmt.Fprintf(os.Stdout, "Really delete record %d? (y/N): ", id)

				var response string

				_, _ = fmt.Scanln(&response)
				if response != "y" && response != "Y" {
					_, _ = os.Stdout.WriteString("Cancelled\n")

					return nil
				}
			}

			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Logout(ctx)
			}()

			err = client.Records().Delete(ctx, id)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(os.Stdout, "Deleted record %d\n", id)

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")

	return cmd
}

// NewFindCommand creates the find command.
func NewFindCommand() *cobra.Command {
	var (
		query  map[string]string
		omit   map[string]string
		sortBy string
		offset int
		limit  int
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Find records",
		Long:  "Find records on the configured layout matching field criteria",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			client, err := createClient(ctx)
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Logout(ctx)
			}()

			req := &fmdata.FindRequest{Offset: offset, Limit: limit}

			if len(query) > 0 {
				req.Query = append(req.Query, fmdata.QueryGroup{Criteria: query})
			}

			if len(omit) > 0 {
				req.Query = append(req.Query, fmdata.QueryGroup{Criteria: omit, Omit: true})
			}

			if sortBy != "" {
				req.Sort = parseSortFields(sortBy)
			}

			foundset, err := client.Records().Find(ctx, req)
			if err != nil {
				return err
			}

			records := foundset.Records()

			if all {
				records, err = foundset.All(ctx)
				if err != nil {
					return err
				}
			}

			return outputRecords(records, foundset.TotalCount())
		},
	}

	cmd.Flags().StringToStringVarP(&query, "where", "w", nil, "match criteria (field=pattern)")
	cmd.Flags().StringToStringVar(&omit, "omit", nil, "omit criteria (field=pattern)")
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort fields (field[:descend],...)")
	cmd.Flags().IntVar(&offset, "offset", 0, "1-based starting offset")
	cmd.Flags().IntVar(&limit, "limit", 0, "page size")
	cmd.Flags().BoolVar(&all, "all", false, "fetch every page")

	return cmd
}

// parseSortFields parses "name,amount:descend" into sort fields.
func parseSortFields(spec string) []fmdata.SortField {
	var sorts []fmdata.SortField

	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		field := fmdata.SortField{FieldName: part, SortOrder: "ascend"}

		if name, order, ok := strings.Cut(part, ":"); ok {
			field.FieldName = name
			field.SortOrder = order
		}

		sorts = append(sorts, field)
	}

	return sorts
}

func outputRecords(records []*fmdata.Record, total int) error {
	rows := make([]map[string]interface{}, 0, len(records))
	for _, record := range records {
		rows = append(rows, recordRow(record))
	}

	done, err := renderEncoded(rows)
	if done {
		return err
	}

	if len(records) == 0 {
		_, _ = os.Stdout.WriteString("No records found\n")

		return nil
	}

	names := sortedFieldNames(records)
	header := append([]string{"Record ID", "Mod ID"}, names...)

	table := tablewriter.NewWriter(os.Stdout)
	table.Header(toAnySlice(header)...)

	for _, record := range records {
		row := []string{strconv.Itoa(record.ID()), strconv.Itoa(record.ModificationID())}
		for _, name := range names {
			row = append(row, fieldString(record, name))
		}

		_ = table.Append(toAnySlice(row)...)
	}

	_ = table.Render()

	_, _ = fmt.Fprintf(os.Stdout, "\nShowing %d of %d records\n", len(records), total)

	return nil
}

func outputRecord(record *fmdata.Record) error {
	done, err := renderEncoded(recordRow(record))
	if done {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Field", "Value")

	_ = table.Append("Record ID", strconv.Itoa(record.ID()))
	_ = table.Append("Mod ID", strconv.Itoa(record.ModificationID()))

	names := sortedFieldNames([]*fmdata.Record{record})
	for _, name := range names {
		_ = table.Append(name, fieldString(record, name))
	}

	_ = table.Render()

	for _, portal := range record.PortalNames() {
		fs, err := record.Portal(portal)
		if err != nil {
			continue
		}

		_, _ = fmt.Fprintf(os.Stdout, "\nPortal %q (%d rows)\n", portal, fs.Len())
	}

	return nil
}

func toAnySlice(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}

	return out
}
