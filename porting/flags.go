package porting

import (
	cli "github.com/urfave/cli/v3"

	"docsync/config"
)

// boolFlags bind porting switches to configuration fields.
func boolFlags(cfg *config.PortingConfig) map[string]*bool {
	f := &cfg.Fields
	return map[string]*bool{
		"port-type-summaries":            &f.TypeSummaries,
		"port-type-remarks":              &f.TypeRemarks,
		"port-type-params":               &f.TypeParams,
		"port-type-type-params":          &f.TypeTypeParams,
		"port-member-summaries":          &f.MemberSummaries,
		"port-member-remarks":            &f.MemberRemarks,
		"port-member-params":             &f.MemberParams,
		"port-member-type-params":        &f.MemberTypeParams,
		"port-member-returns":            &f.MemberReturns,
		"port-member-properties":         &f.MemberProperties,
		"port-exceptions-existing":       &f.ExceptionsExisting,
		"port-exceptions-new":            &f.ExceptionsNew,
		"skip-interface-implementations": &cfg.SkipInterfaceImplementations,
		"skip-interface-remarks":         &cfg.SkipInterfaceRemarks,
		"skip-remarks":                   &cfg.SkipRemarks,
		"save":                           &cfg.Save,
		"print-undoc":                    &cfg.PrintUndoc,
		"print-summary":                  &cfg.PrintSummaryDetails,
	}
}

// listFlags bind filter lists to configuration fields.
func listFlags(cfg *config.FiltersConfig) map[string]*[]string {
	return map[string]*[]string{
		"included-assemblies": &cfg.IncludedAssemblies,
		"excluded-assemblies": &cfg.ExcludedAssemblies,
		"included-namespaces": &cfg.IncludedNamespaces,
		"excluded-namespaces": &cfg.ExcludedNamespaces,
		"included-types":      &cfg.IncludedTypes,
		"excluded-types":      &cfg.ExcludedTypes,
	}
}

var boolUsage = []struct{ name, usage string }{
	{"port-type-summaries", "port type summaries"},
	{"port-type-remarks", "port type remarks"},
	{"port-type-params", "port parameters of delegate types"},
	{"port-type-type-params", "port type parameters of types"},
	{"port-member-summaries", "port member summaries"},
	{"port-member-remarks", "port member remarks"},
	{"port-member-params", "port member parameters"},
	{"port-member-type-params", "port member type parameters"},
	{"port-member-returns", "port member return values"},
	{"port-member-properties", "port property values"},
	{"port-exceptions-existing", "overwrite descriptions of already documented exceptions"},
	{"port-exceptions-new", "add exceptions which are not documented yet"},
	{"skip-interface-implementations", "do not use interface documentation for implementing members"},
	{"skip-interface-remarks", "do not port remarks of interface members"},
	{"skip-remarks", "do not port remarks at all"},
	{"save", "save changed files, otherwise nothing is written"},
	{"print-undoc", "print APIs which are left undocumented"},
	{"print-summary", "print every modified API"},
}

var listUsage = []struct{ name, usage string }{
	{"included-assemblies", "`PREFIX` of assemblies to port (required here or in configuration)"},
	{"excluded-assemblies", "`PREFIX` of assemblies to skip"},
	{"included-namespaces", "`PREFIX` of namespaces to port"},
	{"excluded-namespaces", "`PREFIX` of namespaces to skip"},
	{"included-types", "`NAME` of type to port"},
	{"excluded-types", "`NAME` of type to skip"},
}

// Flags returns flags shared by porting commands. Flags which are not set
// leave configuration values alone.
func Flags() []cli.Flag {
	flags := make([]cli.Flag, 0, len(boolUsage)+len(listUsage)+1)
	for _, f := range listUsage {
		flags = append(flags, &cli.StringSliceFlag{Name: f.name, Usage: f.usage})
	}
	for _, f := range boolUsage {
		flags = append(flags, &cli.BoolFlag{Name: f.name, Usage: f.usage})
	}
	return append(flags, &cli.IntFlag{Name: "exception-collision-threshold",
		Usage: "`PERCENT` (1-100) of words existing exception description must share with new one to be left alone"})
}

// ToDocsFlags returns flags of todocs command.
func ToDocsFlags() []cli.Flag {
	return append([]cli.Flag{
		&cli.StringSliceFlag{Name: "docs", Required: true, Usage: "Docs XML root `DIR`, could be repeated"},
		&cli.StringSliceFlag{Name: "intellisense", Required: true, Usage: "`DIR` or package with IntelliSense XML files, could be repeated"},
	}, Flags()...)
}

// ToTripleSlashFlags returns flags of totripleslash command.
func ToTripleSlashFlags() []cli.Flag {
	return append([]cli.Flag{
		&cli.StringSliceFlag{Name: "docs", Required: true, Usage: "Docs XML root `DIR`, could be repeated"},
		&cli.StringSliceFlag{Name: "source", Required: true, Usage: "C# source root `DIR`, could be repeated"},
		&cli.StringSliceFlag{Name: "include", Usage: "`GLOB` of source files to process, replaces configured ones"},
		&cli.StringSliceFlag{Name: "exclude", Usage: "`GLOB` of source files to skip, replaces configured ones"},
	}, Flags()...)
}

// apply puts values of flags which were set into configuration.
func apply(cmd *cli.Command, cfg *config.Config) {
	for name, dst := range boolFlags(&cfg.Porting) {
		if cmd.IsSet(name) {
			*dst = cmd.Bool(name)
		}
	}
	for name, dst := range listFlags(&cfg.Filters) {
		if cmd.IsSet(name) {
			*dst = cmd.StringSlice(name)
		}
	}
	if cmd.IsSet("exception-collision-threshold") {
		cfg.Porting.ExceptionCollisionThreshold = cmd.Int("exception-collision-threshold")
	}
	if cmd.IsSet("include") {
		cfg.Source.Include = cmd.StringSlice("include")
	}
	if cmd.IsSet("exclude") {
		cfg.Source.Exclude = cmd.StringSlice("exclude")
	}
}
