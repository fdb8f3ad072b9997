package sasscmd

import (
	"github.com/caffeineduck/gosass/engine"
	"github.com/caffeineduck/gosass/interp"
)

// NoIndex marks that no positional argument follows the options.
const NoIndex = -1

// ParseResult is the outcome of scanning the option flags of a compile
// request.
type ParseResult struct {
	// Origin defaults to engine.OriginData when -type is absent.
	Origin engine.Origin

	// Options is nil unless an -options flag was given. The caller owns it
	// until it is attached to a context.
	Options engine.Options

	// Next is the index of the first non-option argument, or NoIndex.
	Next int
}

type optionsParser struct {
	eng     engine.Engine
	reg     *Registry
	opts    engine.Options
	applied map[string]bool
}

// ParseOptions scans args from start, handling -type, -options and --. It
// stops at the first other token. On error nothing is returned and any
// options object it allocated has been released; options set before the
// failure are not rolled back, they are simply discarded with the object.
func ParseOptions(eng engine.Engine, reg *Registry, args []string, start int) (ParseResult, error) {
	p := &optionsParser{eng: eng, reg: reg, applied: make(map[string]bool)}
	res, err := p.parse(args, start)
	if err != nil {
		if p.opts != nil {
			p.opts.Release()
		}
		return ParseResult{}, err
	}
	res.Options = p.opts
	return res, nil
}

func (p *optionsParser) parse(args []string, start int) (ParseResult, error) {
	res := ParseResult{Origin: engine.OriginData, Next: NoIndex}
	origin := engine.OriginUnset

	i := start
	for i < len(args) {
		switch args[i] {
		case "-type":
			if i+1 >= len(args) {
				return res, argErrorf(ErrMissingValue, "missing context type")
			}
			o, err := ResolveOrigin(args[i+1])
			if err != nil {
				return res, err
			}
			origin = o
			i += 2
		case "-options":
			if i+1 >= len(args) {
				return res, argErrorf(ErrMissingValue, "missing options dictionary")
			}
			if err := p.applyDict(args[i+1]); err != nil {
				return res, err
			}
			i += 2
		case "--":
			if i+1 < len(args) {
				res.Next = i + 1
			}
			res.Origin = originOrDefault(origin)
			return res, nil
		default:
			res.Next = i
			res.Origin = originOrDefault(origin)
			return res, nil
		}
	}
	res.Origin = originOrDefault(origin)
	return res, nil
}

func originOrDefault(o engine.Origin) engine.Origin {
	if o == engine.OriginUnset {
		return engine.OriginData
	}
	return o
}

func (p *optionsParser) applyDict(dict string) error {
	elems, err := interp.SplitList(dict)
	if err != nil || len(elems)%2 != 0 {
		return argErrorf(ErrMalformedDictionary, "malformed dictionary")
	}
	if p.opts == nil {
		opts, err := p.eng.NewOptions()
		if err != nil {
			return argErrorf(ErrAllocation, "options allocation failed: %v", err)
		}
		p.opts = opts
	}

	for j := 0; j < len(elems); j += 2 {
		name, raw := elems[j], elems[j+1]
		v, err := p.reg.Resolve(name, raw)
		if err != nil {
			return err
		}
		if p.applied[name] {
			return argErrorf(ErrDuplicateOption, "duplicate option %q", name)
		}
		v.Apply(p.opts)
		p.applied[name] = true
	}
	return nil
}
