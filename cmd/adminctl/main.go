// adminctl is a terminal client for the EduPanel API. It signs in with the
// same credentials as the web portal and keeps the session on disk so
// consecutive invocations stay authenticated.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/edupanel/edupanel-go/internal/client"
	"github.com/edupanel/edupanel-go/internal/importer"
	"github.com/edupanel/edupanel-go/internal/session"
	"github.com/edupanel/edupanel-go/pkg/config"
	"github.com/edupanel/edupanel-go/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	store := session.NewStore(session.NewMemoryBackend(), session.NewFileBackend(sessionPath(cfg)))
	api := client.New(client.Config{
		BaseURL:        cfg.Client.BaseURL,
		RequestTimeout: cfg.Client.RequestTimeout,
		UploadTimeout:  cfg.Client.UploadTimeout,
		Session:        store,
		Logger:         logr,
	})

	ctx := context.Background()
	if err := run(ctx, api, store, logr, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, api *client.Client, store *session.Store, logr *zap.Logger, command string, args []string) error {
	switch command {
	case "login":
		return cmdLogin(ctx, api, args)
	case "logout":
		return api.Logout(ctx)
	case "whoami":
		return cmdWhoami(store)
	case "sections":
		return cmdSections(ctx, api, args)
	case "classes":
		return cmdClasses(ctx, api, args)
	case "students":
		return cmdStudents(ctx, api, args)
	case "import":
		return cmdImport(ctx, api, logr, args)
	case "export":
		return cmdExport(ctx, api, args)
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func cmdLogin(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("username", "", "portal username")
	password := fs.String("password", "", "portal password")
	fs.Parse(args) //nolint:errcheck

	user, err := api.Login(ctx, *username, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s (%s)\n", user.FullName, user.Role)
	return nil
}

func cmdWhoami(store *session.Store) error {
	identity := store.Get()
	if identity == nil {
		fmt.Println("Not signed in")
		return nil
	}
	fmt.Printf("%s (%s), user #%d\n", identity.Username, identity.Role, identity.UserID)
	return nil
}

func cmdSections(ctx context.Context, api *client.Client, args []string) error {
	sub, rest := subcommand(args)
	switch sub {
	case "list", "":
		sections, err := api.Sections(ctx)
		if err != nil {
			return err
		}
		for _, s := range sections {
			fmt.Printf("%d\t%s\t%s-%s\n", s.ID, s.SectionName, s.StartTime, s.EndTime)
		}
		return nil
	case "add":
		fs := flag.NewFlagSet("sections add", flag.ExitOnError)
		name := fs.String("name", "", "section name")
		start := fs.String("start", "", "start time HH:MM")
		end := fs.String("end", "", "end time HH:MM")
		fs.Parse(rest) //nolint:errcheck
		section, err := api.AddSection(ctx, client.SectionInput{SectionName: *name, StartTime: *start, EndTime: *end})
		if err != nil {
			return err
		}
		fmt.Printf("Added section #%d\n", section.ID)
		return nil
	case "delete":
		id, err := idArg(rest)
		if err != nil {
			return err
		}
		if err := api.DeleteSection(ctx, id); err != nil {
			return err
		}
		fmt.Println("Section deleted")
		return nil
	default:
		return fmt.Errorf("unknown sections subcommand %q", sub)
	}
}

func cmdClasses(ctx context.Context, api *client.Client, args []string) error {
	sub, rest := subcommand(args)
	switch sub {
	case "list", "":
		classes, err := api.Classes(ctx)
		if err != nil {
			return err
		}
		for _, cl := range classes {
			fmt.Printf("%d\t%s\t%s\t%s\n", cl.ID, cl.ClassName, cl.SectionName, cl.TeacherName)
		}
		return nil
	case "add":
		fs := flag.NewFlagSet("classes add", flag.ExitOnError)
		name := fs.String("name", "", "class name")
		sectionID := fs.Int64("section", 0, "section id")
		teacher := fs.String("teacher", "", "teacher name")
		fs.Parse(rest) //nolint:errcheck
		class, err := api.AddClass(ctx, client.ClassInput{ClassName: *name, SectionID: *sectionID, TeacherName: *teacher})
		if err != nil {
			return err
		}
		fmt.Printf("Added class #%d\n", class.ID)
		return nil
	case "delete":
		id, err := idArg(rest)
		if err != nil {
			return err
		}
		if err := api.DeleteClass(ctx, id); err != nil {
			return err
		}
		fmt.Println("Class deleted")
		return nil
	default:
		return fmt.Errorf("unknown classes subcommand %q", sub)
	}
}

func cmdStudents(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("students", flag.ExitOnError)
	classID := fs.Int64("class", 0, "filter by class id")
	fs.Parse(args) //nolint:errcheck

	var err error
	var students []studentRow
	if *classID > 0 {
		list, lerr := api.StudentsByClass(ctx, *classID)
		err = lerr
		for _, st := range list {
			students = append(students, studentRow{st.ID, st.RollNumber, st.FirstName + " " + st.LastName, st.ClassName})
		}
	} else {
		list, lerr := api.Students(ctx)
		err = lerr
		for _, st := range list {
			students = append(students, studentRow{st.ID, st.RollNumber, st.FirstName + " " + st.LastName, st.ClassName})
		}
	}
	if err != nil {
		return err
	}
	for _, st := range students {
		fmt.Printf("%d\t%s\t%s\t%s\n", st.id, st.roll, st.name, st.class)
	}
	return nil
}

type studentRow struct {
	id    int64
	roll  string
	name  string
	class string
}

func cmdImport(ctx context.Context, api *client.Client, logr *zap.Logger, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	path := fs.String("file", "", "path to .xlsx or .zip file")
	fs.Parse(args) //nolint:errcheck
	if *path == "" {
		return fmt.Errorf("missing -file")
	}

	file, err := os.Open(*path)
	if err != nil {
		return err
	}
	defer file.Close() //nolint:errcheck

	kind := importer.SpreadsheetOnly
	if strings.EqualFold(filepath.Ext(*path), ".zip") {
		kind = importer.ArchiveWithPhotos
	}

	coord := importer.New(api, logr)
	outcome, err := coord.Run(ctx, kind, filepath.Base(*path), file)
	if err != nil {
		return err
	}
	fmt.Println(outcome.Message)
	for _, rowErr := range outcome.Errors {
		fmt.Printf("  row %d: %s\n", rowErr.Row, rowErr.Reason)
	}
	if outcome.State == importer.StateFailure {
		return fmt.Errorf("import failed")
	}
	return nil
}

func cmdExport(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	classID := fs.Int64("class", 0, "class id")
	format := fs.String("format", "csv", "csv or pdf")
	out := fs.String("out", "", "output file (default roster.<format>)")
	fs.Parse(args) //nolint:errcheck

	content, err := api.ExportRoster(ctx, *classID, *format)
	if err != nil {
		return err
	}
	target := *out
	if target == "" {
		target = "roster." + *format
	}
	if err := os.WriteFile(target, content, 0o644); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%d bytes)\n", target, len(content))
	return nil
}

func sessionPath(cfg *config.Config) string {
	if cfg.Client.SessionFile != "" {
		return cfg.Client.SessionFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".edupanel-session.json"
	}
	return filepath.Join(home, ".edupanel", "session.json")
}

func subcommand(args []string) (string, []string) {
	if len(args) == 0 {
		return "", nil
	}
	return args[0], args[1:]
}

func idArg(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("missing id argument")
	}
	var id int64
	if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: adminctl <command> [flags]

Commands:
  login    -username -password     sign in and store the session
  logout                           clear the stored session
  whoami                           show the signed-in user
  sections [list|add|delete]       manage sections
  classes  [list|add|delete]       manage classes
  students [-class id]             list students
  import   -file students.xlsx     bulk import students (.xlsx or .zip)
  export   -class id [-format csv] download a class roster`)
}
