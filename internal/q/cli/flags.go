package cli

import (
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
)

type flagKind uint8

const (
	flagBool flagKind = iota + 1
	flagString
	flagInt
	flagEnum
)

func (k flagKind) String() string {
	switch k {
	case flagBool:
		return "bool"
	case flagString:
		return "string"
	case flagInt:
		return "int"
	case flagEnum:
		return "enum"
	default:
		return "?"
	}
}

// FlagSet is a typed flag registry for a command.
type FlagSet struct {
	byLong  map[string]*flagDef
	byShort map[rune]*flagDef
}

type flagDef struct {
	name      string
	shorthand rune
	usage     string
	kind      flagKind
	allowed   []string // flagEnum only

	boolPtr   *bool
	stringPtr *string
	intPtr    *int
}

func newFlagSet() *FlagSet {
	return &FlagSet{byLong: map[string]*flagDef{}, byShort: map[rune]*flagDef{}}
}

// Bool defines a bool flag. A bool flag given without a value is set to true.
func (fs *FlagSet) Bool(name string, shorthand rune, def bool, usage string) *bool {
	ptr := &def
	fs.add(&flagDef{name: name, shorthand: shorthand, usage: usage, kind: flagBool, boolPtr: ptr})
	return ptr
}

// String defines a string flag.
func (fs *FlagSet) String(name string, shorthand rune, def string, usage string) *string {
	ptr := &def
	fs.add(&flagDef{name: name, shorthand: shorthand, usage: usage, kind: flagString, stringPtr: ptr})
	return ptr
}

// Int defines an int flag.
func (fs *FlagSet) Int(name string, shorthand rune, def int, usage string) *int {
	ptr := &def
	fs.add(&flagDef{name: name, shorthand: shorthand, usage: usage, kind: flagInt, intPtr: ptr})
	return ptr
}

// Enum defines a string flag whose value must be one of allowed. def must be in allowed.
func (fs *FlagSet) Enum(name string, shorthand rune, def string, allowed []string, usage string) *string {
	if !slices.Contains(allowed, def) {
		panic("cli: enum default not allowed: --" + name)
	}
	ptr := &def
	fs.add(&flagDef{name: name, shorthand: shorthand, usage: usage, kind: flagEnum, allowed: allowed, stringPtr: ptr})
	return ptr
}

func (fs *FlagSet) add(def *flagDef) {
	if def.name == "" {
		panic("cli: flag name must be non-empty")
	}
	if _, ok := fs.byLong[def.name]; ok {
		panic("cli: duplicate flag: --" + def.name)
	}
	fs.byLong[def.name] = def
	if def.shorthand != 0 {
		if _, ok := fs.byShort[def.shorthand]; ok {
			panic(fmt.Sprintf("cli: duplicate shorthand flag: -%c", def.shorthand))
		}
		fs.byShort[def.shorthand] = def
	}
}

// sorted returns the flags ordered by long name. fs may be nil.
func (fs *FlagSet) sorted() []*flagDef {
	if fs == nil {
		return nil
	}
	defs := make([]*flagDef, 0, len(fs.byLong))
	for _, def := range fs.byLong {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].name < defs[j].name })
	return defs
}

// parseFlag parses the flag token argv[i] ("--name", "--name=v", "-n", "-n=v", or single-dash "-name") against fs, and reports whether the next token was consumed
// as its value.
func (fs *FlagSet) parseFlag(argv []string, i int) (consumedNext bool, err error) {
	token := argv[i]
	body := strings.TrimPrefix(strings.TrimPrefix(token, "-"), "-")
	name, value, hasValue := strings.Cut(body, "=")

	var def *flagDef
	if fs != nil {
		def = fs.byLong[name]
		if def == nil && !strings.HasPrefix(token, "--") && len([]rune(name)) == 1 {
			def = fs.byShort[[]rune(name)[0]]
		}
	}
	if def == nil {
		return false, usageErrorf("unknown flag: %s", token)
	}

	if !hasValue {
		next, hasNext := "", i+1 < len(argv)
		if hasNext {
			next = argv[i+1]
		}
		switch {
		case def.kind == flagBool:
			value = "true"
			if _, err := strconv.ParseBool(next); hasNext && err == nil {
				value, consumedNext = next, true
			}
		case !hasNext || next == "--":
			return false, usageErrorf("flag needs a value: %s", token)
		default:
			value, consumedNext = next, true
		}
	}

	if err := def.set(value); err != nil {
		return false, usageErrorf("invalid value for %s: %v", def.display(), err)
	}
	return consumedNext, nil
}

func (def *flagDef) set(raw string) error {
	switch def.kind {
	case flagBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		*def.boolPtr = v
	case flagString:
		*def.stringPtr = raw
	case flagInt:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		*def.intPtr = v
	case flagEnum:
		if !slices.Contains(def.allowed, raw) {
			return fmt.Errorf("%q is not one of %s", raw, strings.Join(def.allowed, "|"))
		}
		*def.stringPtr = raw
	}
	return nil
}

func (def *flagDef) display() string {
	if def.shorthand != 0 {
		return fmt.Sprintf("-%c/--%s", def.shorthand, def.name)
	}
	return "--" + def.name
}

// helpLine formats def for the Flags section of help.
func (def *flagDef) helpLine() string {
	names := "    --" + def.name
	if def.shorthand != 0 {
		names = fmt.Sprintf("-%c, --%s", def.shorthand, def.name)
	}
	switch def.kind {
	case flagBool:
	case flagEnum:
		names += " <" + strings.Join(def.allowed, "|") + ">"
	default:
		names += " <" + def.kind.String() + ">"
	}
	if usage := strings.TrimSpace(def.usage); usage != "" {
		return "  " + names + "\t" + usage
	}
	return "  " + names
}
