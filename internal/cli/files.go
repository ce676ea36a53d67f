package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/V4T54L/logviewer/internal/adapter/repository/filesystem"
	"github.com/V4T54L/logviewer/internal/pkg/logger"
)

func newFilesCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "files [dir]",
		Short: "List log files in a directory, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			log := logger.NewWithWriter(cmd.ErrOrStderr(), v.GetString("log-level"), "text")

			repo, err := filesystem.NewLogFileRepository(v.GetStringSlice("patterns"), log)
			if err != nil {
				return err
			}
			files, err := repo.ListFiles(cmd.Context(), dir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch v.GetString("output") {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(files)
			case "text", "":
			default:
				return fmt.Errorf("unknown output format %q", v.GetString("output"))
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, styleHeader.Render("FILE")+"\t"+styleHeader.Render("MODIFIED")+"\t"+styleHeader.Render("SIZE"))
			for _, f := range files {
				fmt.Fprintf(tw, "%s\t%s\t%d\n", f.FileName, f.ModificationDate.Format(time.DateTime), f.FileSizeBytes)
			}
			return tw.Flush()
		},
	}
}
