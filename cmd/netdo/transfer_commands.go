package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"netdo/internal/tasks"
	"netdo/internal/tracker"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// resolveFormat picks the explicit format, else infers one from the file
// extension, else JSON.
func resolveFormat(explicit, path string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(explicit)) {
	case "":
	case formatJSON:
		return formatJSON, nil
	case formatYAML, "yml":
		return formatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want json or yaml)", explicit)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML, nil
	default:
		return formatJSON, nil
	}
}

func encodeTasks(w io.Writer, format string, list []tasks.Task) error {
	if format == formatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(list); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}
	return encodeJSON(w, list)
}

func decodeTasks(data []byte, format string) ([]tasks.Task, error) {
	list := []tasks.Task{}
	if len(bytes.TrimSpace(data)) == 0 {
		return list, nil
	}
	if format == formatYAML {
		if err := yaml.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
		return list, nil
	}
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	return list, nil
}

func newExportCommand(ctx *commandContext) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every task as JSON or YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveFormat(format, output)
			if err != nil {
				return err
			}
			return ctx.withTracker(cmd, func(c context.Context, tr *tracker.Tracker) error {
				list := tr.Tasks(c)
				if output == "" || output == "-" {
					return encodeTasks(cmd.OutOrStdout(), resolved, list)
				}

				var buf bytes.Buffer
				if err := encodeTasks(&buf, resolved, list); err != nil {
					return err
				}
				if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("write export: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d tasks to %s\n", len(list), output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: json or yaml (default from extension, else json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file (default stdout)")
	return cmd
}

func newImportCommand(ctx *commandContext) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace every task with the contents of a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			resolved, err := resolveFormat(format, path)
			if err != nil {
				return err
			}

			var data []byte
			if path == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(path)
			}
			if err != nil {
				return fmt.Errorf("read import: %w", err)
			}
			list, err := decodeTasks(data, resolved)
			if err != nil {
				return err
			}

			return ctx.withTracker(cmd, func(c context.Context, tr *tracker.Tracker) error {
				if err := tr.ReplaceTasks(c, list); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d tasks\n", len(list))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Input format: json or yaml (default from extension, else json)")
	return cmd
}
