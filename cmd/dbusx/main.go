// Command dbusx is offline tooling for the DBus wire type model: it
// validates signatures and names, and encodes or decodes message
// bodies without touching a bus.
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/creachadair/command"
	"github.com/creachadair/flax"
	"github.com/dbusx/dbusx"
	"github.com/dbusx/dbusx/fragments"
	"github.com/kr/pretty"
)

var globalArgs struct {
	Order string `flag:"order,Byte order of wire data: le (default) or be"`
}

func wireOrder() (fragments.ByteOrder, error) {
	switch globalArgs.Order {
	case "", "le":
		return fragments.LittleEndian, nil
	case "be":
		return fragments.BigEndian, nil
	default:
		return nil, fmt.Errorf("unknown byte order %q, want le or be", globalArgs.Order)
	}
}

var codecArgs struct {
	Sig string `flag:"sig,Type signature of the message body"`
}

func main() {
	root := &command.C{
		Name:     "dbusx",
		Usage:    "command args...",
		SetFlags: command.Flags(flax.MustBind, &globalArgs),
		Commands: []*command.C{
			{
				Name:  "sig",
				Usage: "sig args...",
				Commands: []*command.C{
					{
						Name:  "check",
						Usage: "sig check signature...",
						Help:  "Validate type signatures against the DBus grammar.",
						Run:   runSigCheck,
					},
					{
						Name:  "split",
						Usage: "sig split signature",
						Help:  "Split a signature into its top-level complete types.",
						Run:   command.Adapt(runSigSplit),
					},
				},
			},
			{
				Name:  "name",
				Usage: "name check kind name...",
				Commands: []*command.C{
					{
						Name:  "check",
						Usage: "name check kind name...",
						Help: `Validate names against a DBus name grammar.

kind is one of: bus, path, interface, member, error.`,
						Run: runNameCheck,
					},
				},
			},
			{
				Name:     "decode",
				Usage:    "decode -sig signature [hex...]",
				Help:     "Decode a hex-encoded message body and print its values.\n\nReads hex from the arguments, or from stdin if none are given.",
				SetFlags: command.Flags(flax.MustBind, &codecArgs),
				Run:      runDecode,
			},
			{
				Name:     "encode",
				Usage:    "encode -sig signature json...",
				Help:     "Encode JSON-shaped values against a signature and print the wire bytes as hex.\n\nOne JSON document per top-level complete type of the signature.",
				SetFlags: command.Flags(flax.MustBind, &codecArgs),
				Run:      runEncode,
			},
			command.HelpCommand(nil),
			command.VersionCommand(),
		},
	}

	command.RunOrFail(root.NewEnv(nil), os.Args[1:])
}

func runSigCheck(env *command.Env) error {
	if len(env.Args) == 0 {
		return env.Usagef("at least one signature is required.")
	}
	bad := 0
	for _, sig := range env.Args {
		if err := dbusx.CheckSignature(sig); err != nil {
			fmt.Println(err)
			bad++
		} else {
			fmt.Printf("%s: ok\n", sig)
		}
	}
	if bad > 0 {
		return fmt.Errorf("%d invalid signatures", bad)
	}
	return nil
}

func runSigSplit(env *command.Env, sig string) error {
	parts, err := dbusx.SplitSignature(sig)
	if err != nil {
		return err
	}
	for _, p := range parts {
		fmt.Println(p)
	}
	return nil
}

var nameCheckers = map[string]func(string) bool{
	"bus":       dbusx.ValidBusName,
	"path":      dbusx.ValidObjectPath,
	"interface": dbusx.ValidInterfaceName,
	"member":    dbusx.ValidMemberName,
	"error":     dbusx.ValidErrorName,
}

func runNameCheck(env *command.Env) error {
	if len(env.Args) < 2 {
		return env.Usagef("a name kind and at least one name are required.")
	}
	check, ok := nameCheckers[env.Args[0]]
	if !ok {
		return fmt.Errorf("unknown name kind %q, want bus, path, interface, member or error", env.Args[0])
	}
	bad := 0
	for _, name := range env.Args[1:] {
		if check(name) {
			fmt.Printf("%s: ok\n", name)
		} else {
			fmt.Printf("%s: invalid\n", name)
			bad++
		}
	}
	if bad > 0 {
		return fmt.Errorf("%d invalid names", bad)
	}
	return nil
}

func runDecode(env *command.Env) error {
	ord, err := wireOrder()
	if err != nil {
		return err
	}
	var in string
	if len(env.Args) > 0 {
		in = strings.Join(env.Args, "")
	} else {
		bs, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		in = string(bs)
	}
	in = strings.Join(strings.Fields(in), "")
	raw, err := hex.DecodeString(in)
	if err != nil {
		return fmt.Errorf("decoding hex input: %w", err)
	}

	vals, err := dbusx.Unmarshal(codecArgs.Sig, raw, ord)
	if err != nil {
		return err
	}
	for i, v := range vals {
		fmt.Printf("arg %d (%s):\n", i, v.Kind())
		pretty.Println(v.Interface())
	}
	return nil
}

func runEncode(env *command.Env) error {
	ord, err := wireOrder()
	if err != nil {
		return err
	}
	parts, err := dbusx.SplitSignature(codecArgs.Sig)
	if err != nil {
		return err
	}
	if len(parts) != len(env.Args) {
		return fmt.Errorf("signature %q describes %d values, got %d arguments", codecArgs.Sig, len(parts), len(env.Args))
	}
	vals := make([]dbusx.Value, len(parts))
	for i, part := range parts {
		v, err := valueForJSON(part, env.Args[i])
		if err != nil {
			return fmt.Errorf("argument %d: %w", i, err)
		}
		vals[i] = v
	}

	raw, err := dbusx.Marshal(codecArgs.Sig, vals, ord)
	if err != nil {
		return err
	}
	fmt.Println(hex.EncodeToString(raw))
	return nil
}
