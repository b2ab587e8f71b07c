package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/j4v3l/Duty-Tracker/config"
	"github.com/j4v3l/Duty-Tracker/internal/dto"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:           "dutyctl",
	Short:         "Duty roster administration tool",
	Long:          `dutyctl imports duty rosters pasted from group chats, maintains fairness tracking and prints distribution reports.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		// openApp 已执行迁移
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()
		fmt.Println("migrations applied")
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load post types, posts and personnel (personnel only into an empty table)",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		seed, err := config.LoadSeed(file)
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.svc.Seed.Bootstrap(cmd.Context(), seed)
		if err != nil {
			return err
		}
		fmt.Printf("post types created: %d\nposts created: %d\npersonnel created: %d\n",
			result.PostTypesCreated, result.PostsCreated, result.PersonnelCreated)
		if result.PersonnelSkipped {
			fmt.Println("personnel table not empty, roster skipped")
		}
		return nil
	},
}

var setupPostsCmd = &cobra.Command{
	Use:   "setup-posts",
	Short: "Ensure the standard post types and posts exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.svc.Post.SetupPosts(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("post types created: %d\nposts created: %d\n", result.PostTypesCreated, result.PostsCreated)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a roster pasted from a group chat",
	Long: `Reads the chat text from --file (or stdin when --file is "-") and creates
one assignment per matched personnel line. Re-importing the same text is a no-op.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		date, _ := cmd.Flags().GetString("date")
		preview, _ := cmd.Flags().GetBool("preview")

		text, err := readInput(file)
		if err != nil {
			return err
		}

		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		req := &dto.ImportRosterRequest{ChatText: text, DutyDate: date}
		if preview {
			result, err := a.svc.Roster.Preview(cmd.Context(), req)
			if err != nil {
				return err
			}
			printPreview(os.Stdout, result)
			return nil
		}

		result, err := a.svc.Roster.ImportChat(cmd.Context(), req)
		if err != nil {
			return err
		}
		printImport(os.Stdout, result)
		return nil
	},
}

var recalculateCmd = &cobra.Command{
	Use:   "recalculate",
	Short: "Rebuild fairness tracking by replaying every assignment",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.svc.Fairness.RecalculateAll(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("deleted: %d\nreplayed: %d\ntracking records: %d\n", result.Deleted, result.Replayed, result.Updated)
		return nil
	},
}

var fairnessCmd = &cobra.Command{
	Use:   "fairness",
	Short: "Show the fairness ranking (lowest score should be assigned next)",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ranking, err := a.svc.Fairness.Rank(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(renderRanking(ranking))
		return nil
	},
}

var distributionCmd = &cobra.Command{
	Use:   "distribution",
	Short: "Show per-person post type distribution",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		dist, err := a.svc.Stats.PostDistribution(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(renderDistribution(dist))
		return nil
	},
}

var detailCmd = &cobra.Command{
	Use:   "detail <personnel-id>",
	Short: "Show duty history and scores for one person",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		detail, err := a.svc.Stats.PersonnelDetail(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		printDetail(os.Stdout, detail)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export reports to files",
}

var exportDistributionCmd = &cobra.Command{
	Use:   "distribution",
	Short: "Export the post distribution as an Excel workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		buf, filename, err := a.svc.Export.ExportDistribution(cmd.Context())
		if err != nil {
			return err
		}
		return writeOutput(cmd, filename, buf.Bytes())
	},
}

var exportCalendarCmd = &cobra.Command{
	Use:   "calendar <personnel-id>",
	Short: "Export one person's duties as an iCalendar file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		buf, filename, err := a.svc.Export.ExportCalendar(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return writeOutput(cmd, filename, buf.Bytes())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at the configured level instead of warn")

	seedCmd.Flags().String("file", "", "seed TOML file (default: built-in roster)")

	importCmd.Flags().StringP("file", "f", "-", `chat text file, "-" for stdin`)
	importCmd.Flags().StringP("date", "d", "", "duty date (YYYY-MM-DD, default today)")
	importCmd.Flags().Bool("preview", false, "parse only and print per-line diagnostics")

	exportCmd.PersistentFlags().StringP("output", "o", "", "output file (default: generated filename)")
	exportCmd.AddCommand(exportDistributionCmd, exportCalendarCmd)

	rootCmd.AddCommand(migrateCmd, seedCmd, setupPostsCmd, importCmd, recalculateCmd,
		fairnessCmd, distributionCmd, detailCmd, exportCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// readInput 读取文件内容，"-" 表示标准输入
func readInput(path string) (string, error) {
	if path == "-" || path == "" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("读取名册文件失败: %w", err)
	}
	return string(b), nil
}

func writeOutput(cmd *cobra.Command, filename string, data []byte) error {
	out, _ := cmd.Flags().GetString("output")
	if out == "" {
		out = filename
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("写入导出文件失败: %w", err)
	}
	fmt.Printf("wrote %s (%d bytes)\n", out, len(data))
	return nil
}
