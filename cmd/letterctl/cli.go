package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"letterdesk/internal/client"
	"letterdesk/internal/selection"
	"letterdesk/internal/workflow"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp() *cli.App {
	app := &cli.App{
		Name:    "letterctl",
		Usage:   "Command-line client for the letterdesk API",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api", Value: "http://localhost:8080", Usage: "Base URL of the letterdesk server", EnvVars: []string{"LETTERDESK_API"}},
		},
		Commands: []*cli.Command{
			resumesCmd(),
			uploadCmd(),
			deleteResumeCmd(),
			entitiesCmd(),
			generateCmd(),
			lettersCmd(),
			downloadCmd(),
			deleteLetterCmd(),
		},
	}
	return app
}

func newController(c *cli.Context) *workflow.Controller {
	return workflow.NewController(client.New(c.String("api")))
}

// resumesCmd creates the resumes command.
func resumesCmd() *cli.Command {
	return &cli.Command{
		Name:  "resumes",
		Usage: "List uploaded resumes",
		Action: func(c *cli.Context) error {
			ctrl := newController(c)
			resumes, err := ctrl.Registry().Resumes(c.Context)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			for _, r := range resumes {
				fmt.Printf("%s  %s.%s  %s\n", r.FileID, r.Filename, r.FileExtension, r.CreatedAt)
			}
			return nil
		},
	}
}

// uploadCmd creates the upload command.
func uploadCmd() *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "Upload a resume (PDF or DOCX)",
		ArgsUsage: "<path>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("upload requires exactly one file path", 1)
			}
			path := c.Args().First()
			f, err := os.Open(path)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer f.Close()

			api := client.New(c.String("api"))
			fileID, err := api.UploadResume(c.Context, filepath.Base(path), f)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			fmt.Println(fileID)
			return nil
		},
	}
}

// deleteResumeCmd creates the delete-resume command.
func deleteResumeCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete-resume",
		Usage:     "Delete a resume after confirmation",
		ArgsUsage: "<file-id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Skip the confirmation prompt"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("delete-resume requires exactly one file id", 1)
			}
			ctrl := newController(c)
			if _, err := ctrl.Registry().Resumes(c.Context); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			target, err := ctrl.RequestDeleteResume(c.Args().First())
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			if !c.Bool("yes") && !confirm(fmt.Sprintf("Delete resume %q?", target.Name)) {
				ctrl.CancelDelete()
				fmt.Println("Cancelled.")
				return nil
			}
			if err := ctrl.ConfirmDelete(c.Context); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			fmt.Println("Deleted.")
			return nil
		},
	}
}

// entitiesCmd creates the entities command, an interactive curation loop.
func entitiesCmd() *cli.Command {
	return &cli.Command{
		Name:      "entities",
		Usage:     "Curate the entity selection for a resume interactively",
		ArgsUsage: "<file-id>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("entities requires exactly one file id", 1)
			}
			ctrl := newController(c)
			if err := ctrl.OpenEntities(c.Context, c.Args().First()); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return curationLoop(c, ctrl)
		},
	}
}

// curationLoop reads commands from stdin until quit or EOF.
func curationLoop(c *cli.Context, ctrl *workflow.Controller) error {
	eng := ctrl.Engine()
	rows := flattenEntities(eng.Entities())
	printEntities(rows, eng)
	fmt.Println(`Commands: toggle <n>, list, save, research, results, quit`)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "toggle":
			if len(fields) != 2 {
				fmt.Println("usage: toggle <n>")
				continue
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 1 || n > len(rows) {
				fmt.Println("no such entity")
				continue
			}
			row := rows[n-1]
			eng.Toggle(row.label, row.entity)
			printEntities(rows, eng)
		case "list":
			printEntities(rows, eng)
		case "save":
			if err := ctrl.SaveSelection(c.Context); err != nil {
				fmt.Println(err)
			}
			fmt.Println(eng.Message())
		case "research":
			if err := ctrl.Research(c.Context); err != nil {
				fmt.Println(err)
			}
			fmt.Println(eng.Message())
		case "results":
			results := eng.Results()
			if len(results) == 0 {
				fmt.Println("No research results.")
				continue
			}
			names := make([]string, 0, len(results))
			for name := range results {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Printf("%s: %s\n", name, results[name])
			}
		case "quit", "q":
			return nil
		default:
			fmt.Println("unknown command")
		}
	}
}

type entityRow struct {
	label  string
	entity selection.Entity
}

func flattenEntities(byLabel map[string][]selection.Entity) []entityRow {
	labels := make([]string, 0, len(byLabel))
	for label := range byLabel {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	var rows []entityRow
	for _, label := range labels {
		for _, ent := range byLabel[label] {
			rows = append(rows, entityRow{label: label, entity: ent})
		}
	}
	return rows
}

// generateCmd creates the generate command.
func generateCmd() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "Generate a recommendation letter",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "principal", Required: true, Usage: "File id of the recommender's resume"},
			&cli.StringFlag{Name: "grantee", Required: true, Usage: "File id of the recommended person's resume"},
			&cli.StringFlag{Name: "type", Value: "job", Usage: "Recommendation type: job|enrollment|visa"},
			&cli.StringFlag{Name: "circumstances", Usage: "How the principal knows the grantee"},
			&cli.StringFlag{Name: "directives", Usage: "Extra instructions for the letter"},
		},
		Action: func(c *cli.Context) error {
			ctrl := newController(c)
			ctrl.SetPrincipal(c.String("principal"))
			ctrl.SetGrantee(c.String("grantee"))
			ctrl.SetLetterDetails(c.String("circumstances"), c.String("type"), c.String("directives"))
			if msg := ctrl.PairingError(); msg != "" {
				return cli.Exit(msg, 1)
			}
			letterID, err := ctrl.Generate(c.Context)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			fmt.Println(letterID)
			return nil
		},
	}
}

// lettersCmd creates the letters command.
func lettersCmd() *cli.Command {
	return &cli.Command{
		Name:      "letters",
		Usage:     "List the letters generated for a resume",
		ArgsUsage: "<file-id>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("letters requires exactly one file id", 1)
			}
			api := client.New(c.String("api"))
			letters, err := api.LettersForResume(c.Context, c.Args().First())
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			for _, l := range letters {
				fmt.Printf("%s  %s.%s  %s\n", l.LetterID, l.Filename, l.FileExtension, l.CreatedAt)
			}
			return nil
		},
	}
}

// downloadCmd creates the download command.
func downloadCmd() *cli.Command {
	return &cli.Command{
		Name:      "download",
		Usage:     "Download a letter as a DOCX file",
		ArgsUsage: "<letter-id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output path (default: <letter-id>.docx)"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("download requires exactly one letter id", 1)
			}
			letterID := c.Args().First()
			out := c.String("out")
			if out == "" {
				out = letterID + ".docx"
			}
			f, err := os.Create(out)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			defer f.Close()

			api := client.New(c.String("api"))
			if _, err := api.DownloadLetter(c.Context, letterID, f); err != nil {
				os.Remove(out)
				return cli.Exit(err.Error(), 1)
			}
			fmt.Println(out)
			return nil
		},
	}
}

// deleteLetterCmd creates the delete-letter command.
func deleteLetterCmd() *cli.Command {
	return &cli.Command{
		Name:      "delete-letter",
		Usage:     "Delete a letter after confirmation",
		ArgsUsage: "<letter-id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Skip the confirmation prompt"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("delete-letter requires exactly one letter id", 1)
			}
			if !c.Bool("yes") && !confirm("Delete letter "+c.Args().First()+"?") {
				fmt.Println("Cancelled.")
				return nil
			}
			api := client.New(c.String("api"))
			if err := api.DeleteLetter(c.Context, c.Args().First()); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			fmt.Println("Deleted.")
			return nil
		},
	}
}

// Helper functions

func printEntities(rows []entityRow, eng *selection.Engine) {
	draft := eng.Draft()
	for i, row := range rows {
		mark := " "
		if draft.Contains(row.label, row.entity.Text) {
			mark = "x"
		}
		fmt.Printf("%3d [%s] %-14s %s\n", i+1, mark, row.label, row.entity.Text)
	}
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
