package main

import (
	"bufio"
	"context"
	"encoding/json"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"careerlens/internal/app"
	"careerlens/internal/common/errors"
	"careerlens/internal/listing"
	"careerlens/internal/models"
)

type cli struct {
	app *app.App
	out io.Writer
	in  io.Reader
}

type command struct {
	usage string
	run   func(c *cli, ctx context.Context, args []string) error
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"login":         {"login -email EMAIL [-password PASSWORD]", (*cli).login},
		"signup":        {"signup -email EMAIL -password PASSWORD [-name NAME]", (*cli).signup},
		"logout":        {"logout", (*cli).logout},
		"whoami":        {"whoami [-remote]", (*cli).whoami},
		"recs":          {"recs [-q TEXT] [-type TYPE] [-location TEXT] [-min-score N] [-skill S]... [-my-skills] [-sort match|recent|salary] [-limit N] [-json] [-facets]", (*cli).recs},
		"save":          {"save ID", (*cli).save},
		"check":         {"check ID", (*cli).check},
		"apply":         {"apply ID", (*cli).apply},
		"saved":         {"saved", (*cli).saved},
		"tracker":       {"tracker [-status STATUS]", (*cli).tracker},
		"status":        {"status APP_ID STATUS", (*cli).status},
		"notes":         {"notes APP_ID TEXT...", (*cli).notes},
		"untrack":       {"untrack APP_ID", (*cli).untrack},
		"stats":         {"stats [-remote]", (*cli).stats},
		"scrape":        {"scrape [-category C]... [-type TYPE] [-location TEXT]", (*cli).scrape},
		"upload":        {"upload FILE", (*cli).upload},
		"profile":       {"profile", (*cli).profile},
		"skills":        {"skills [SKILL...]", (*cli).skills},
		"prefs":         {"prefs [-type TYPE] [-mode MODE] [-location TEXT] [-role ROLE]...", (*cli).prefs},
		"dashboard":     {"dashboard", (*cli).dashboard},
		"skill-gap":     {"skill-gap (-job FILE | -job-text TEXT) (-resume FILE | -resume-text TEXT)", (*cli).skillGap},
		"serve-metrics": {"serve-metrics [-addr ADDR]", (*cli).serveMetrics},
		"shell":         {"shell", (*cli).shell},
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: careerlens [-profile NAME] [-config FILE] COMMAND [ARGS]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", commands[name].usage)
	}
}

func (c *cli) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		usage(c.out)
		return nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		usage(c.out)
		return errors.NewValidationError(fmt.Sprintf("unknown command %q", args[0]))
	}
	if err := cmd.run(c, ctx, args[1:]); err != nil && !stderrors.Is(err, flag.ErrHelp) {
		return err
	}
	return nil
}

func (c *cli) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.out)
	return fs
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func requireArgs(fs *flag.FlagSet, n int, what string) error {
	if fs.NArg() < n {
		return errors.NewValidationError(fmt.Sprintf("%s: expected %s", fs.Name(), what))
	}
	return nil
}

// --- auth ---

func (c *cli) login(ctx context.Context, args []string) error {
	fs := c.flags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password (default: $CAREERLENS_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *password == "" {
		*password = os.Getenv("CAREERLENS_PASSWORD")
	}

	session, err := c.app.Auth.SignIn(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Signed in as %s\n", session.User.Email)
	return nil
}

func (c *cli) signup(ctx context.Context, args []string) error {
	fs := c.flags("signup")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password, at least 6 characters (default: $CAREERLENS_PASSWORD)")
	name := fs.String("name", "", "full name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *password == "" {
		*password = os.Getenv("CAREERLENS_PASSWORD")
	}

	user, err := c.app.Auth.SignUp(ctx, *email, *password, *name)
	if err != nil {
		return err
	}
	current, err := c.app.Auth.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if current == nil {
		fmt.Fprintf(c.out, "Account created for %s; confirm your email, then run `careerlens login`\n", user.Email)
		return nil
	}
	fmt.Fprintf(c.out, "Account created; signed in as %s\n", user.Email)
	return nil
}

func (c *cli) logout(ctx context.Context, _ []string) error {
	if err := c.app.Auth.SignOut(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Signed out")
	return nil
}

func (c *cli) whoami(ctx context.Context, args []string) error {
	fs := c.flags("whoami")
	remote := fs.Bool("remote", false, "ask the auth service instead of the stored session")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		user *models.User
		err  error
	)
	if *remote {
		user, err = c.app.Auth.FetchUser(ctx)
	} else {
		user, err = c.app.RequireUser(ctx)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "id:    %s\nemail: %s\n", user.ID, user.Email)
	if name := user.FullName(); name != "" {
		fmt.Fprintf(c.out, "name:  %s\n", name)
	}
	return nil
}

// --- listings ---

func (c *cli) recs(ctx context.Context, args []string) error {
	fs := c.flags("recs")
	query := fs.String("q", "", "search role, company and description")
	workType := fs.String("type", "", "work type: Remote, On-site, In-office, Hybrid, Unknown or All")
	location := fs.String("location", "", "location contains")
	minScore := fs.Int("min-score", 0, "minimum match score (0-100)")
	sortKey := fs.String("sort", "match", "match, recent or salary")
	limit := fs.Int("limit", 0, "show at most N results")
	asJSON := fs.Bool("json", false, "print JSON")
	facets := fs.Bool("facets", false, "list the available filter values instead")
	mySkills := fs.Bool("my-skills", false, "filter by the skills on your latest resume when no -skill is given")
	var skills stringList
	fs.Var(&skills, "skill", "required skill, repeatable (any one matches)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	wt, err := listing.ParseWorkType(*workType)
	if err != nil {
		return err
	}
	key, err := listing.ParseSortKey(*sortKey)
	if err != nil {
		return err
	}
	criteria := listing.Criteria{
		Query:          *query,
		WorkType:       wt,
		Location:       *location,
		MinScore:       *minScore,
		SelectedSkills: skills,
		SortKey:        key,
	}
	if err := criteria.Validate(); err != nil {
		return err
	}

	user, err := c.app.LoadListings(ctx)
	if err != nil {
		return err
	}
	if *facets {
		return c.printFacets(listing.BuildFacets(c.app.Store.Records()), c.profileSkills(ctx, user.ID))
	}
	if *mySkills && len(criteria.SelectedSkills) == 0 {
		criteria.SelectedSkills = c.profileSkills(ctx, user.ID)
	}

	view := c.app.Store.View(criteria)
	if *limit > 0 && len(view) > *limit {
		view = view[:*limit]
	}
	if *asJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	if len(view) == 0 {
		fmt.Fprintln(c.out, "No matching internships.")
		return nil
	}
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSCORE\tROLE\tCOMPANY\tLOCATION\tTYPE\tSALARY\t")
	for _, v := range view {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			v.ID, v.MatchScore, v.Role, v.Company, v.Location, v.WorkType, v.Salary, badges(v))
	}
	return tw.Flush()
}

func badges(v listing.ListingView) string {
	var b []string
	if v.Saved {
		b = append(b, "saved")
	}
	if v.Applied {
		b = append(b, "applied")
	}
	return strings.Join(b, ",")
}

func (c *cli) printFacets(f listing.Facets, mine []string) error {
	types := make([]string, 0, len(f.WorkTypes))
	for _, wt := range f.WorkTypes {
		types = append(types, string(wt))
	}
	fmt.Fprintf(c.out, "work types: %s\n", strings.Join(types, ", "))
	fmt.Fprintf(c.out, "locations:  %s\n", strings.Join(f.Locations, ", "))
	fmt.Fprintf(c.out, "skills:     %s\n", strings.Join(f.Skills, ", "))
	if len(mine) > 0 {
		fmt.Fprintf(c.out, "your skills: %s\n", strings.Join(mine, ", "))
	}
	return nil
}

// profileSkills returns the latest resume's skills. A failed profile read only costs the
// skill menu, so it is logged and treated as no skills.
func (c *cli) profileSkills(ctx context.Context, userID string) []string {
	profile, err := c.app.Gateway.Profile(ctx, userID)
	if err != nil {
		c.app.Logger.Warn("profile unavailable, no skill menu", map[string]interface{}{"error": err.Error()})
		return nil
	}
	return profile.Skills()
}

func (c *cli) save(ctx context.Context, args []string) error {
	fs := c.flags("save")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireArgs(fs, 1, "an internship id"); err != nil {
		return err
	}
	if _, err := c.app.LoadListings(ctx); err != nil {
		return err
	}

	id := models.ID(fs.Arg(0))
	saved, err := c.app.Coordinator.ToggleSaved(ctx, id)
	if err != nil {
		return err
	}
	if saved {
		fmt.Fprintf(c.out, "Saved %s\n", id)
	} else {
		fmt.Fprintf(c.out, "Removed %s from saved\n", id)
	}
	return nil
}

func (c *cli) check(ctx context.Context, args []string) error {
	fs := c.flags("check")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireArgs(fs, 1, "an internship id"); err != nil {
		return err
	}
	user, err := c.app.RequireUser(ctx)
	if err != nil {
		return err
	}

	ok, err := c.app.Gateway.IsBookmarked(ctx, user.ID, models.ID(fs.Arg(0)))
	if err != nil {
		return err
	}
	if ok {
		fmt.Fprintf(c.out, "%s is saved\n", fs.Arg(0))
	} else {
		fmt.Fprintf(c.out, "%s is not saved\n", fs.Arg(0))
	}
	return nil
}

func (c *cli) apply(ctx context.Context, args []string) error {
	fs := c.flags("apply")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireArgs(fs, 1, "an internship id"); err != nil {
		return err
	}
	if _, err := c.app.LoadListings(ctx); err != nil {
		return err
	}

	id := models.ID(fs.Arg(0))
	record, _ := c.app.Store.Record(id)
	if err := c.app.Coordinator.MarkApplied(ctx, id, record.ApplyURL); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Marked %s as applied\n", id)
	if record.ApplyURL != "" {
		fmt.Fprintf(c.out, "Apply at %s\n", record.ApplyURL)
	}
	return nil
}

func (c *cli) saved(ctx context.Context, _ []string) error {
	if _, err := c.app.LoadListings(ctx); err != nil {
		return err
	}
	items := c.app.Store.SavedItems()
	if len(items) == 0 {
		fmt.Fprintln(c.out, "Nothing saved yet.")
		return nil
	}

	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tROLE\tCOMPANY\tLOCATION\tAPPLIED\t")
	for _, it := range items {
		applied := ""
		if c.app.Store.IsApplied(it.ID) {
			applied = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n", it.ID, it.Role, it.Company, it.Location, applied)
	}
	return tw.Flush()
}

func (c *cli) scrape(ctx context.Context, args []string) error {
	fs := c.flags("scrape")
	workType := fs.String("type", "", "work type to scrape")
	location := fs.String("location", "", "location to scrape")
	var categories stringList
	fs.Var(&categories, "category", "category to scrape, repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := c.app.LoadListings(ctx); err != nil {
		return err
	}
	resp, err := c.app.Store.Scrape(ctx, models.ScrapeRequest{
		Categories: categories,
		WorkType:   *workType,
		Location:   *location,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s (%s)\n", resp.Message, strings.Join(resp.Categories, ", "))
	fmt.Fprintf(c.out, "%d recommendations loaded\n", len(c.app.Store.Records()))
	return nil
}

func (c *cli) upload(ctx context.Context, args []string) error {
	fs := c.flags("upload")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireArgs(fs, 1, "a resume file"); err != nil {
		return err
	}
	user, err := c.app.RequireUser(ctx)
	if err != nil {
		return err
	}

	path := fs.Arg(0)
	f, err := os.Open(path)
	if err != nil {
		return errors.NewValidationError(err.Error())
	}
	defer f.Close()

	res, err := c.app.Gateway.UploadResume(ctx, user.ID, filepath.Base(path), f)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Uploaded %s\n", res.FileName)
	if res.ATSScore != nil {
		fmt.Fprintf(c.out, "ATS score: %d\n", *res.ATSScore)
	}
	if len(res.Skills) > 0 {
		fmt.Fprintf(c.out, "Skills: %s\n", strings.Join(res.Skills, ", "))
	}
	return nil
}

// --- tracker ---

func (c *cli) tracker(ctx context.Context, args []string) error {
	fs := c.flags("tracker")
	status := fs.String("status", "All", "Applied, Interview, Offer, Rejected, Withdrawn or All")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := c.app.LoadTracker(ctx); err != nil {
		return err
	}

	apps, err := c.app.Tracker.Filter(*status)
	if err != nil {
		return err
	}
	if len(apps) == 0 {
		fmt.Fprintln(c.out, "No applications.")
		return nil
	}

	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "APP\tSTATUS\tROLE\tCOMPANY\tAPPLIED\tNOTES\t")
	for _, a := range apps {
		s := models.Summarize(a.Internship)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n", a.ID, a.Status, s.Role, s.Company, a.AppliedAt, a.Notes)
	}
	return tw.Flush()
}

func (c *cli) status(ctx context.Context, args []string) error {
	fs := c.flags("status")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireArgs(fs, 2, "an application id and a status"); err != nil {
		return err
	}
	if _, err := c.app.LoadTracker(ctx); err != nil {
		return err
	}

	status := models.ApplicationStatus(fs.Arg(1))
	if err := c.app.Tracker.UpdateStatus(ctx, models.ID(fs.Arg(0)), status); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Application %s moved to %s\n", fs.Arg(0), status)
	return nil
}

func (c *cli) notes(ctx context.Context, args []string) error {
	fs := c.flags("notes")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireArgs(fs, 1, "an application id"); err != nil {
		return err
	}
	if _, err := c.app.LoadTracker(ctx); err != nil {
		return err
	}

	text := strings.Join(fs.Args()[1:], " ")
	if err := c.app.Tracker.SaveNotes(ctx, models.ID(fs.Arg(0)), text); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Notes saved for %s\n", fs.Arg(0))
	return nil
}

func (c *cli) untrack(ctx context.Context, args []string) error {
	fs := c.flags("untrack")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := requireArgs(fs, 1, "an application id"); err != nil {
		return err
	}
	if _, err := c.app.LoadTracker(ctx); err != nil {
		return err
	}

	if err := c.app.Tracker.Remove(ctx, models.ID(fs.Arg(0))); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Application %s removed\n", fs.Arg(0))
	return nil
}

func (c *cli) stats(ctx context.Context, args []string) error {
	fs := c.flags("stats")
	remote := fs.Bool("remote", false, "ask the API instead of counting the loaded board")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var stats models.ApplicationStats
	if *remote {
		user, err := c.app.RequireUser(ctx)
		if err != nil {
			return err
		}
		s, err := c.app.Gateway.ApplicationStats(ctx, user.ID)
		if err != nil {
			return err
		}
		stats = *s
	} else {
		if _, err := c.app.LoadTracker(ctx); err != nil {
			return err
		}
		stats = c.app.Tracker.Counts()
	}

	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	for _, s := range models.ApplicationStatuses {
		fmt.Fprintf(tw, "%s\t%d\n", s, stats.Counts[s])
	}
	fmt.Fprintf(tw, "Total\t%d\n", stats.Total)
	return tw.Flush()
}

// --- profile ---

func (c *cli) profile(ctx context.Context, _ []string) error {
	user, err := c.app.RequireUser(ctx)
	if err != nil {
		return err
	}
	p, err := c.app.Gateway.Profile(ctx, user.ID)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "name:\t%s\n", p.User.FullName)
	fmt.Fprintf(tw, "email:\t%s\n", p.User.Email)
	fmt.Fprintf(tw, "resumes:\t%d\n", p.Stats.ResumesUploaded)
	if r := p.LatestResume; r != nil {
		fmt.Fprintf(tw, "latest resume:\t%s\n", r.FileName)
		if r.ATSScore != nil {
			fmt.Fprintf(tw, "ATS score:\t%d\n", *r.ATSScore)
		}
		fmt.Fprintf(tw, "skills:\t%s\n", strings.Join(r.Skills, ", "))
	} else {
		fmt.Fprintf(tw, "latest resume:\tnone, run `careerlens upload FILE`\n")
	}
	printPreferences(tw, p.Preferences)
	return tw.Flush()
}

func printPreferences(w io.Writer, p models.Preferences) {
	fmt.Fprintf(w, "internship type:\t%s\n", p.InternshipType)
	fmt.Fprintf(w, "work mode:\t%s\n", p.WorkMode)
	fmt.Fprintf(w, "location:\t%s\n", p.PreferredLocation)
	if len(p.TargetRoles) > 0 {
		fmt.Fprintf(w, "target roles:\t%s\n", strings.Join(p.TargetRoles, ", "))
	}
}

// skills prints the latest resume's skills, or replaces them when arguments are given.
// Arguments may be comma separated.
func (c *cli) skills(ctx context.Context, args []string) error {
	fs := c.flags("skills")
	if err := fs.Parse(args); err != nil {
		return err
	}
	user, err := c.app.RequireUser(ctx)
	if err != nil {
		return err
	}

	if fs.NArg() == 0 {
		p, err := c.app.Gateway.Profile(ctx, user.ID)
		if err != nil {
			return err
		}
		if len(p.Skills()) == 0 {
			fmt.Fprintln(c.out, "No skills yet.")
			return nil
		}
		fmt.Fprintln(c.out, strings.Join(p.Skills(), ", "))
		return nil
	}

	var skills []string
	for _, arg := range fs.Args() {
		for _, s := range strings.Split(arg, ",") {
			if s = strings.TrimSpace(s); s != "" {
				skills = append(skills, s)
			}
		}
	}
	updated, err := c.app.Gateway.UpdateSkills(ctx, user.ID, skills)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Skills updated: %s\n", strings.Join(updated, ", "))
	return nil
}

// prefs shows the saved preferences, or saves them when any flag is set. Unset flags keep
// their stored values.
func (c *cli) prefs(ctx context.Context, args []string) error {
	fs := c.flags("prefs")
	internshipType := fs.String("type", "", "internship type, e.g. Summer or Full-time")
	workMode := fs.String("mode", "", "work mode: Remote, Hybrid or On-site")
	location := fs.String("location", "", "preferred location")
	var roles stringList
	fs.Var(&roles, "role", "target role, repeatable")
	if err := fs.Parse(args); err != nil {
		return err
	}
	user, err := c.app.RequireUser(ctx)
	if err != nil {
		return err
	}

	current, err := c.app.Gateway.Preferences(ctx, user.ID)
	if err != nil {
		return err
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if len(set) == 0 {
		tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
		printPreferences(tw, *current)
		return tw.Flush()
	}

	update := models.PreferencesUpdate{
		InternshipType:    current.InternshipType,
		WorkMode:          current.WorkMode,
		PreferredLocation: current.PreferredLocation,
		TargetRoles:       current.TargetRoles,
	}
	if set["type"] {
		update.InternshipType = *internshipType
	}
	if set["mode"] {
		update.WorkMode = *workMode
	}
	if set["location"] {
		update.PreferredLocation = *location
	}
	if set["role"] {
		update.TargetRoles = roles
	}
	if _, err := c.app.Gateway.SavePreferences(ctx, user.ID, update); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "Preferences saved")
	return nil
}

func (c *cli) dashboard(ctx context.Context, _ []string) error {
	user, err := c.app.RequireUser(ctx)
	if err != nil {
		return err
	}
	d, err := c.app.Gateway.Dashboard(ctx, user.ID)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Applications")
	for _, s := range models.ApplicationStatuses {
		fmt.Fprintf(tw, "  %s\t%d\n", s, d.Funnel.Counts[s])
	}
	fmt.Fprintf(tw, "  Total\t%d\n", d.Funnel.Total)

	if m := d.MatchOverview; m.TotalInternships > 0 {
		fmt.Fprintln(tw, "Matches")
		fmt.Fprintf(tw, "  average\t%d\n", m.AverageScore)
		fmt.Fprintf(tw, "  top\t%d\n", m.TopScore)
		fmt.Fprintf(tw, "  80+\t%d of %d\n", m.Above80, m.TotalInternships)
		fmt.Fprintf(tw, "  60+\t%d of %d\n", m.Above60, m.TotalInternships)
	}

	if len(d.SkillsDistribution) > 0 {
		fmt.Fprintln(tw, "Skills in demand")
		for _, sk := range d.SkillsDistribution {
			mark := ""
			if !sk.Owned {
				mark = "missing"
			}
			fmt.Fprintf(tw, "  %s\t%d\t%s\n", sk.Skill, sk.Demand, mark)
		}
	}
	if len(d.TopCompanies) > 0 {
		fmt.Fprintln(tw, "Top companies")
		for _, co := range d.TopCompanies {
			fmt.Fprintf(tw, "  %s\t%d\n", co.Company, co.Count)
		}
	}
	if len(d.RecentActivity) > 0 {
		fmt.Fprintln(tw, "Recent activity")
		for _, a := range d.RecentActivity {
			fmt.Fprintf(tw, "  %s\t%s\n", a.Time, a.Label)
		}
	}
	return tw.Flush()
}

func (c *cli) skillGap(ctx context.Context, args []string) error {
	fs := c.flags("skill-gap")
	jobFile := fs.String("job", "", "file holding the job description")
	jobText := fs.String("job-text", "", "job description text")
	resumeFile := fs.String("resume", "", "resume file (PDF, DOCX or TXT)")
	resumeText := fs.String("resume-text", "", "resume text")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := models.SkillGapRequest{JobDescription: *jobText, ResumeText: *resumeText}
	if *jobFile != "" {
		raw, err := os.ReadFile(*jobFile)
		if err != nil {
			return errors.NewValidationError(err.Error())
		}
		req.JobDescription = string(raw)
	}
	if *resumeFile != "" {
		f, err := os.Open(*resumeFile)
		if err != nil {
			return errors.NewValidationError(err.Error())
		}
		defer f.Close()
		req.ResumeFile = f
		req.ResumeFileName = filepath.Base(*resumeFile)
	}

	res, err := c.app.Gateway.AnalyzeSkillGap(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Match: %d%% (%d of %d skills)\n", res.MatchScore, res.TotalMatched, res.TotalJDSkills)
	fmt.Fprintf(c.out, "Matched: %s\n", strings.Join(res.MatchedSkills, ", "))
	fmt.Fprintf(c.out, "Missing: %s\n", strings.Join(res.MissingSkills, ", "))
	for _, r := range res.Recommendations {
		fmt.Fprintf(c.out, "- %s\n", r)
	}
	return nil
}

// --- process ---

func (c *cli) serveMetrics(ctx context.Context, args []string) error {
	fs := c.flags("serve-metrics")
	addr := fs.String("addr", c.app.Config.Metrics.Address, "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return c.app.ServeMetrics(ctx, *addr)
}

// shell runs commands read from c.in in one process, so an in-memory session lasts across
// commands.
func (c *cli) shell(ctx context.Context, _ []string) error {
	scanner := bufio.NewScanner(c.in)
	fmt.Fprint(c.out, "careerlens> ")
	for scanner.Scan() {
		args := strings.Fields(scanner.Text())
		switch {
		case len(args) == 0:
		case args[0] == "exit" || args[0] == "quit":
			return nil
		case args[0] == "shell":
			fmt.Fprintln(c.out, "already in a shell")
		default:
			if err := c.run(ctx, args); err != nil {
				fmt.Fprintf(c.out, "error: %v\n", err)
			}
		}
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(c.out, "careerlens> ")
	}
	return scanner.Err()
}
