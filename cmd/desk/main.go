// Command desk is a terminal client for a contractdesk server.
//
// The session survives between invocations in the user config directory, so
// a single login covers a whole working session.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"contractdesk/client"
	"contractdesk/client/view"
)

func main() {
	serverURL := flag.String("server", envOr("CONTRACTDESK_URL", "http://localhost:8091"), "server base URL")
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	store, err := sessionStore()
	if err != nil {
		fatal(err)
	}
	c := client.New(*serverURL, client.WithSessionStore(store))

	ctx := context.Background()
	if err := run(ctx, c, flag.Args()); err != nil {
		if errors.Is(err, client.ErrSessionExpired) {
			fmt.Fprintln(os.Stderr, "session expired, please login again")
			os.Exit(1)
		}
		fatal(err)
	}
}

func run(ctx context.Context, c *client.Client, args []string) error {
	switch args[0] {
	case "login":
		return cmdLogin(ctx, c, args[1:])
	case "logout":
		return c.Logout()
	case "whoami":
		return cmdWhoami(c)
	case "contracts":
		return cmdContracts(ctx, c, args[1:])
	case "documents":
		return cmdDocuments(ctx, c, args[1:])
	case "reports":
		return cmdReports(ctx, c, args[1:])
	case "users":
		return cmdUsers(ctx, c, args[1:])
	case "categories":
		return cmdCategories(ctx, c, args[1:])
	default:
		usage()
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func cmdLogin(ctx context.Context, c *client.Client, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("user", "", "username")
	password := fs.String("password", "", "password (prompted when omitted)")
	fs.Parse(args)

	if *username == "" {
		return fmt.Errorf("login requires -user")
	}

	if *password == "" {
		fmt.Fprint(os.Stderr, "Password: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return err
		}
		*password = strings.TrimRight(line, "\r\n")
	}

	user, err := c.Login(ctx, *username, *password)
	if err != nil {
		return err
	}

	fmt.Printf("logged in as %s (%s)\n", user.Username, user.Role)
	return nil
}

func cmdWhoami(c *client.Client) error {
	user := c.CurrentUser()
	if user == nil {
		fmt.Println("not logged in")
		return nil
	}
	fmt.Printf("%s (%s)\n", user.Username, user.Role)
	return nil
}

func cmdContracts(ctx context.Context, c *client.Client, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: desk contracts <list|show|create|edit|terminate|calculate-dates> ...")
	}

	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("contracts list", flag.ExitOnError)
		search := fs.String("search", "", "full-text search")
		category := fs.String("category", "", "filter by category")
		onlyValid := fs.Bool("valid", false, "only currently valid contracts")
		fs.Parse(args[1:])

		contracts, err := c.ListContracts(ctx, client.ListOptions{
			Search:    *search,
			Category:  *category,
			OnlyValid: *onlyValid,
		})
		if err != nil {
			return err
		}
		printContracts(contracts)
		return nil

	case "show":
		id, err := parseID(args[1:], "contract")
		if err != nil {
			return err
		}
		detail, err := c.GetContractDetail(ctx, id)
		if err != nil {
			return err
		}
		if detail == nil {
			fmt.Println("contract not found")
			return nil
		}
		printContractDetail(*detail)
		return nil

	case "create":
		fs := flag.NewFlagSet("contracts create", flag.ExitOnError)
		f := registerContractFlags(fs)
		fs.Parse(args[1:])

		var form client.ContractForm
		if err := f.apply(fs, &form); err != nil {
			return err
		}
		if form.Title == "" || form.Partner == "" || form.Category == "" {
			return fmt.Errorf("contracts create requires -title, -partner and -category")
		}
		if form.ValidFrom.IsZero() {
			return fmt.Errorf("contracts create requires -valid-from")
		}

		contract, err := c.CreateContract(ctx, form)
		if err != nil {
			return err
		}
		fmt.Printf("created contract %s (id %d)\n", contract.ContractNumber, contract.ID)
		return nil

	case "edit":
		id, err := parseID(args[1:], "contract")
		if err != nil {
			return err
		}
		fs := flag.NewFlagSet("contracts edit", flag.ExitOnError)
		f := registerContractFlags(fs)
		fs.Parse(args[2:])

		current, err := c.GetContract(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			fmt.Println("contract not found")
			return nil
		}

		form := formFromContract(*current)
		if err := f.apply(fs, &form); err != nil {
			return err
		}

		contract, err := c.UpdateContract(ctx, id, form)
		if err != nil {
			return err
		}
		fmt.Printf("updated contract %s\n", contract.ContractNumber)
		return nil

	case "terminate":
		fs := flag.NewFlagSet("contracts terminate", flag.ExitOnError)
		yes := fs.Bool("y", false, "skip the confirmation prompt")
		fs.Parse(args[1:])

		id, err := parseID(fs.Args(), "contract")
		if err != nil {
			return err
		}
		if !*yes {
			ok, err := confirm(fmt.Sprintf("terminate contract %d? This cannot be undone", id))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("aborted")
				return nil
			}
		}
		contract, err := c.TerminateContract(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("contract %s terminated\n", contract.ContractNumber)
		return nil

	case "calculate-dates":
		res, err := c.CalculateDates(ctx)
		if err != nil {
			return err
		}
		fmt.Println(res.Message)
		return nil

	default:
		return fmt.Errorf("unknown contracts subcommand %q", args[0])
	}
}

func cmdDocuments(ctx context.Context, c *client.Client, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: desk documents <list|upload|download> ...")
	}

	switch args[0] {
	case "list":
		id, err := parseID(args[1:], "contract")
		if err != nil {
			return err
		}
		docs, err := c.ListDocuments(ctx, id)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tFILENAME\tUPLOADED")
		for _, doc := range docs {
			fmt.Fprintf(w, "%d\t%s\t%s\n", doc.ID, doc.Filename, doc.UploadedAt.Format("2006-01-02 15:04"))
		}
		return w.Flush()

	case "upload":
		if len(args) < 3 {
			return fmt.Errorf("usage: desk documents upload <contract-id> <file.pdf>")
		}
		id, err := parseID(args[1:], "contract")
		if err != nil {
			return err
		}
		f, err := os.Open(args[2])
		if err != nil {
			return err
		}
		defer f.Close()

		doc, err := c.UploadDocument(ctx, id, filepath.Base(args[2]), f)
		if err != nil {
			return err
		}
		fmt.Printf("uploaded %s as document %d\n", doc.Filename, doc.ID)
		return nil

	case "download":
		id, err := parseID(args[1:], "document")
		if err != nil {
			return err
		}

		tmp, err := os.CreateTemp(".", "download-*.pdf")
		if err != nil {
			return err
		}

		name, err := c.DownloadDocument(ctx, id, tmp)
		tmp.Close()
		if err != nil {
			os.Remove(tmp.Name())
			return err
		}
		if err := os.Rename(tmp.Name(), name); err != nil {
			return err
		}
		fmt.Printf("saved %s\n", name)
		return nil

	default:
		return fmt.Errorf("unknown documents subcommand %q", args[0])
	}
}

func cmdReports(ctx context.Context, c *client.Client, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: desk reports <expiring|valid> ...")
	}

	switch args[0] {
	case "expiring":
		fs := flag.NewFlagSet("reports expiring", flag.ExitOnError)
		days := fs.Int("days", 0, "lookahead window in days (0 = server default)")
		fs.Parse(args[1:])

		contracts, err := c.ExpiringContracts(ctx, *days)
		if err != nil {
			return err
		}
		if len(contracts) == 0 {
			fmt.Println(view.ExpiringEmptyHint)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NUMBER\tTITLE\tPARTNER\tCANCELLATION\tACT BY")
		for _, contract := range contracts {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				contract.ContractNumber, contract.Title, contract.Partner,
				view.FormatDate(contract.CancellationDate),
				view.FormatDate(contract.CancellationActionDate))
		}
		return w.Flush()

	case "valid":
		contracts, err := c.ValidContracts(ctx)
		if err != nil {
			return err
		}
		printContracts(contracts)
		return nil

	default:
		return fmt.Errorf("unknown reports subcommand %q", args[0])
	}
}

func cmdUsers(ctx context.Context, c *client.Client, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: desk users <list|add|edit|rm> ...")
	}

	switch args[0] {
	case "list":
		users, err := c.ListUsers(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUSERNAME\tROLE")
		for _, user := range users {
			fmt.Fprintf(w, "%d\t%s\t%s\n", user.ID, user.Username, user.Role)
		}
		return w.Flush()

	case "add":
		fs := flag.NewFlagSet("users add", flag.ExitOnError)
		username := fs.String("user", "", "username")
		password := fs.String("password", "", "password")
		role := fs.String("role", client.RoleViewer, "admin or viewer")
		fs.Parse(args[1:])

		user, err := c.CreateUser(ctx, client.UserForm{
			Username: *username,
			Password: *password,
			Role:     *role,
		})
		if err != nil {
			return err
		}
		fmt.Printf("created user %s (%s)\n", user.Username, user.Role)
		return nil

	case "edit":
		id, err := parseID(args[1:], "user")
		if err != nil {
			return err
		}
		fs := flag.NewFlagSet("users edit", flag.ExitOnError)
		username := fs.String("user", "", "new username")
		password := fs.String("password", "", "new password (empty keeps the current one)")
		role := fs.String("role", "", "admin or viewer")
		fs.Parse(args[2:])

		current, err := findUser(ctx, c, id)
		if err != nil {
			return err
		}
		if current == nil {
			fmt.Println("user not found")
			return nil
		}

		form := client.UserForm{
			Username: current.Username,
			Role:     current.Role,
			Password: *password,
		}
		if *username != "" {
			form.Username = *username
		}
		if *role != "" {
			form.Role = *role
		}

		user, err := c.UpdateUser(ctx, id, form)
		if err != nil {
			return err
		}
		fmt.Printf("updated user %s (%s)\n", user.Username, user.Role)
		return nil

	case "rm":
		id, err := parseID(args[1:], "user")
		if err != nil {
			return err
		}
		if err := c.DeleteUser(ctx, id); err != nil {
			return err
		}
		fmt.Println("user deleted")
		return nil

	default:
		return fmt.Errorf("unknown users subcommand %q", args[0])
	}
}

func cmdCategories(ctx context.Context, c *client.Client, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: desk categories <list|add|rename|rm> ...")
	}

	switch args[0] {
	case "list":
		categories, err := c.ListCategories(ctx)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME")
		for _, category := range categories {
			fmt.Fprintf(w, "%d\t%s\n", category.ID, category.Name)
		}
		return w.Flush()

	case "add":
		if len(args) < 2 {
			return fmt.Errorf("usage: desk categories add <name>")
		}
		category, err := c.CreateCategory(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("created category %s\n", category.Name)
		return nil

	case "rename":
		if len(args) < 3 {
			return fmt.Errorf("usage: desk categories rename <id> <new-name>")
		}
		id, err := parseID(args[1:], "category")
		if err != nil {
			return err
		}
		category, err := c.RenameCategory(ctx, id, args[2])
		if err != nil {
			return err
		}
		fmt.Printf("renamed category to %s\n", category.Name)
		return nil

	case "rm":
		id, err := parseID(args[1:], "category")
		if err != nil {
			return err
		}
		if err := c.DeleteCategory(ctx, id); err != nil {
			return err
		}
		fmt.Println("category deleted")
		return nil

	default:
		return fmt.Errorf("unknown categories subcommand %q", args[0])
	}
}

func printContracts(contracts []client.Contract) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNUMBER\tTITLE\tPARTNER\tCATEGORY\tSTATUS")
	now := time.Now()
	for _, contract := range contracts {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			contract.ID, contract.ContractNumber, contract.Title,
			contract.Partner, contract.Category, view.ContractStatus(contract, now))
	}
	w.Flush()
}

func printContractDetail(detail client.ContractDetail) {
	contract := detail.Contract

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Number\t%s\n", contract.ContractNumber)
	fmt.Fprintf(w, "Title\t%s\n", contract.Title)
	fmt.Fprintf(w, "Partner\t%s\n", contract.Partner)
	fmt.Fprintf(w, "Category\t%s\n", contract.Category)
	fmt.Fprintf(w, "Type\t%s\n", contract.ContractType)
	fmt.Fprintf(w, "Status\t%s\n", view.ContractStatus(contract, time.Now()))
	fmt.Fprintf(w, "Valid from\t%s\n", contract.ValidFrom.Format("02.01.2006"))
	fmt.Fprintf(w, "Valid until\t%s\n", view.FormatDate(contract.ValidUntil))
	fmt.Fprintf(w, "Notice period\t%s\n", view.FormatMonths(contract.NoticePeriod))
	fmt.Fprintf(w, "Minimum term\t%s\n", view.FormatDate(contract.MinimumTerm))
	fmt.Fprintf(w, "Term\t%s\n", view.FormatMonths(contract.TermMonths))
	fmt.Fprintf(w, "Cancellation date\t%s\n", view.FormatDate(contract.CancellationDate))
	fmt.Fprintf(w, "Act by\t%s\n", view.FormatDate(contract.CancellationActionDate))
	if contract.IsTerminated {
		fmt.Fprintf(w, "Terminated at\t%s\n", view.FormatDateTime(contract.TerminatedAt))
	}
	if detail.Framework != nil {
		fmt.Fprintf(w, "Framework\t%s (%s)\n", detail.Framework.ContractNumber, detail.Framework.Title)
	} else if contract.FrameworkContractID != nil {
		fmt.Fprintf(w, "Framework\t#%d\n", *contract.FrameworkContractID)
	}
	w.Flush()

	if len(detail.Documents) > 0 {
		fmt.Println("\nDocuments:")
		dw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, doc := range detail.Documents {
			fmt.Fprintf(dw, "  %d\t%s\t%s\n", doc.ID, doc.Filename, doc.UploadedAt.Format("2006-01-02 15:04"))
		}
		dw.Flush()
	}
}

func confirm(prompt string) (bool, error) {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

// contractFlags holds the raw flag values of the contract form. Only flags
// the user actually set are applied, so edit keeps everything else as is.
type contractFlags struct {
	title      string
	partner    string
	category   string
	ctype      string
	number     string
	content    string
	conditions string
	validFrom  string
	validUntil string
	minTerm    string
	notice     int
	term       int
	framework  uint
}

func registerContractFlags(fs *flag.FlagSet) *contractFlags {
	f := &contractFlags{}
	fs.StringVar(&f.title, "title", "", "contract title")
	fs.StringVar(&f.partner, "partner", "", "contract partner")
	fs.StringVar(&f.category, "category", "", "category name")
	fs.StringVar(&f.ctype, "type", client.ContractTypeIndividual, "framework or individual")
	fs.StringVar(&f.number, "number", "", "contract number (assigned when empty)")
	fs.StringVar(&f.content, "content", "", "contract content")
	fs.StringVar(&f.conditions, "conditions", "", "contract conditions")
	fs.StringVar(&f.validFrom, "valid-from", "", "start date (YYYY-MM-DD)")
	fs.StringVar(&f.validUntil, "valid-until", "", "end date (YYYY-MM-DD, empty clears)")
	fs.StringVar(&f.minTerm, "min-term", "", "minimum term end date (YYYY-MM-DD, empty clears)")
	fs.IntVar(&f.notice, "notice", 0, "notice period in months (0 clears)")
	fs.IntVar(&f.term, "term", 0, "term length in months (0 clears)")
	fs.UintVar(&f.framework, "framework", 0, "linked framework contract id (0 clears)")
	return f
}

func (f *contractFlags) apply(fs *flag.FlagSet, form *client.ContractForm) error {
	var applyErr error
	fs.Visit(func(fl *flag.Flag) {
		if applyErr != nil {
			return
		}
		switch fl.Name {
		case "title":
			form.Title = f.title
		case "partner":
			form.Partner = f.partner
		case "category":
			form.Category = f.category
		case "type":
			form.ContractType = f.ctype
		case "number":
			form.ContractNumber = f.number
		case "content":
			form.Content = f.content
		case "conditions":
			form.Conditions = f.conditions
		case "valid-from":
			t, err := parseDateFlag("valid-from", f.validFrom)
			if err != nil {
				applyErr = err
				return
			}
			form.ValidFrom = t
		case "valid-until":
			t, err := optionalDateFlag("valid-until", f.validUntil)
			if err != nil {
				applyErr = err
				return
			}
			form.ValidUntil = t
		case "min-term":
			t, err := optionalDateFlag("min-term", f.minTerm)
			if err != nil {
				applyErr = err
				return
			}
			form.MinimumTerm = t
		case "notice":
			form.NoticePeriod = positiveOrNil(f.notice)
		case "term":
			form.TermMonths = positiveOrNil(f.term)
		case "framework":
			if f.framework == 0 {
				form.FrameworkContractID = nil
			} else {
				id := f.framework
				form.FrameworkContractID = &id
			}
		}
	})
	return applyErr
}

func parseDateFlag(name, value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid -%s %q, want YYYY-MM-DD", name, value)
	}
	return t, nil
}

func optionalDateFlag(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseDateFlag(name, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func positiveOrNil(n int) *int {
	if n <= 0 {
		return nil
	}
	return &n
}

func formFromContract(c client.Contract) client.ContractForm {
	return client.ContractForm{
		ContractNumber:      c.ContractNumber,
		Title:               c.Title,
		Content:             c.Content,
		Conditions:          c.Conditions,
		NoticePeriod:        c.NoticePeriod,
		MinimumTerm:         c.MinimumTerm,
		TermMonths:          c.TermMonths,
		ValidFrom:           c.ValidFrom,
		ValidUntil:          c.ValidUntil,
		Partner:             c.Partner,
		Category:            c.Category,
		ContractType:        c.ContractType,
		FrameworkContractID: c.FrameworkContractID,
	}
}

func findUser(ctx context.Context, c *client.Client, id uint) (*client.User, error) {
	users, err := c.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, nil
}

func parseID(args []string, what string) (uint, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("%s id required", what)
	}
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s id %q", what, args[0])
	}
	return uint(id), nil
}

func sessionStore() (client.SessionStore, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return client.NewMemorySessionStore(), nil
	}
	return client.NewFileSessionStore(filepath.Join(configDir, "contractdesk"))
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: desk [-server URL] <command>

commands:
  login -user NAME            log in and store the session
  logout                      drop the stored session
  whoami                      show the logged-in user
  contracts list|show|create|edit|terminate|calculate-dates
  documents list|upload|download
  reports expiring|valid
  users list|add|edit|rm
  categories list|add|rename|rm`)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
