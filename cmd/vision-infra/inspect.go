package main

import (
	"fmt"
	"io"

	"vision-infra/internal/filesystem"
	"vision-infra/internal/mediatypes"
	"vision-infra/internal/memory"
	"vision-infra/internal/vision"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

// newInspectCmd creates the command listing the sources and models in a
// directory.
func newInspectCmd() *cobra.Command {
	var onlyType string

	cmd := &cobra.Command{
		Use:   "inspect <dir>",
		Short: "List images, videos and models in a directory",
		Long: `List the files directly inside a directory with their type, size and,
for images, their pixel dimensions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.OutOrStdout(), filesystem.Default(), args[0], mediatypes.FileType(onlyType))
		},
	}
	cmd.Flags().StringVarP(&onlyType, "type", "t", "", "only list files of this type: image, video, model or other")

	return cmd
}

type inspectEntry struct {
	name       string
	fileType   mediatypes.FileType
	size       int64
	dimensions string
}

func listSources(fs filesystem.FileSystem, dir string, only mediatypes.FileType) ([]inspectEntry, error) {
	if !fs.IsDirectory(dir) {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	var entries []inspectEntry
	for _, name := range fs.ListFiles(dir) {
		path := fs.JoinPath(dir, name)
		fileType := mediatypes.Classify(name)
		if only != "" && fileType != only {
			continue
		}

		entry := inspectEntry{name: name, fileType: fileType, size: fs.FileSize(path), dimensions: "-"}
		if fileType == mediatypes.FileTypeImage {
			if dims, err := vision.ImageDimensions(path); err == nil {
				entry.dimensions = fmt.Sprintf("%dx%d", dims.Width, dims.Height)
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func runInspect(w io.Writer, fs filesystem.FileSystem, dir string, only mediatypes.FileType) error {
	entries, err := listSources(fs, dir, only)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintf(w, "%s %s\n", text.FgYellow.Sprint("!"), text.FgYellow.Sprintf("No matching files in %s", dir))
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{
		text.FgHiCyan.Sprint("NAME"),
		text.FgHiCyan.Sprint("TYPE"),
		text.FgHiCyan.Sprint("SIZE"),
		text.FgHiCyan.Sprint("DIMENSIONS"),
	})

	var total uint64
	counts := make(map[mediatypes.FileType]int)
	for _, e := range entries {
		size := "?"
		if e.size >= 0 {
			size = memory.FormatBytes(uint64(e.size))
			total += uint64(e.size)
		}
		counts[e.fileType]++
		t.AppendRow(table.Row{e.name, string(e.fileType), size, e.dimensions})
	}

	t.AppendFooter(table.Row{
		fmt.Sprintf("%d files", len(entries)),
		fmt.Sprintf("%d image / %d video / %d model", counts[mediatypes.FileTypeImage], counts[mediatypes.FileTypeVideo], counts[mediatypes.FileTypeModel]),
		memory.FormatBytes(total),
		"",
	})
	t.Render()
	return nil
}
