package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wasmfoundry/hostlink/adapter"
	"github.com/wasmfoundry/hostlink/bind"
	"github.com/wasmfoundry/hostlink/export"
	"github.com/wasmfoundry/hostlink/handle"
	"github.com/wasmfoundry/hostlink/internal/synth"
	"github.com/wasmfoundry/hostlink/val"
)

func main() {
	var (
		list        = flag.Bool("list", false, "List linked exports and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		runCalls    = flag.Bool("run", false, "Call every export once through a synthesized guest module")
		verbose     = flag.Bool("verbose", false, "Enable development logging")
		checksum    = flag.Uint64("version-checksum", 0, "Caller version checksum to log against the registry digest")
	)
	flag.Parse()

	if *verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		adapter.SetLogger(log)
		export.SetLogger(log)
		bind.SetLogger(log)
	}

	if !*list && !*interactive && !*runCalls {
		fmt.Fprintln(os.Stderr, "Usage: exports -list [-version-checksum N]")
		fmt.Fprintln(os.Stderr, "       exports -run  (call every export through a synthesized guest)")
		fmt.Fprintln(os.Stderr, "       exports -i    (interactive mode)")
		os.Exit(1)
	}

	demo, err := buildDemo(*checksum)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	switch {
	case *interactive:
		err = runInteractive(demo)
	case *runCalls:
		err = runThrough(context.Background(), demo)
	default:
		printRegistry(demo.reg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printRegistry(reg *export.Registry) {
	styled := term.IsTerminal(int(os.Stdout.Fd()))

	fmt.Printf("Registry version: %#x\n", reg.Version)
	fmt.Printf("Interfaces: %d\n", len(reg.Interfaces))

	for i := range reg.Interfaces {
		ie := &reg.Interfaces[i]
		meta := fmt.Sprintf("id %d  checksum %#x  tag %#x", ie.ID, ie.Checksum, ie.TypeTag)
		fmt.Println()
		if styled {
			fmt.Println(titleStyle.Render(ie.Name) + "  " + helpStyle.Render(meta))
		} else {
			fmt.Printf("%s  (%s)\n", ie.Name, meta)
		}
		for j := range ie.Funcs {
			fn := &ie.Funcs[j]
			if styled {
				fmt.Printf("  %s %s\n", funcStyle.Render(fn.Name), typeStyle.Render(fn.Type.String()))
			} else {
				fmt.Printf("  %s %s\n", fn.Name, fn.Type.String())
			}
		}
	}
}

// runThrough attaches the demo registry to a wazero runtime,
// synthesizes a guest module that imports every export, and calls each
// trampoline once against the bound demo instances.
func runThrough(ctx context.Context, demo *demoHost) error {
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	if err := bind.Attach(ctx, rt, demo.reg); err != nil {
		return err
	}

	b := synth.NewBuilder()
	for i := range demo.reg.Interfaces {
		ie := &demo.reg.Interfaces[i]
		for j := range ie.Funcs {
			fn := &ie.Funcs[j]
			params, results := bind.FlatSignature(fn.Type)
			b.ImportFunc(ie.Name, fn.Name, ie.Name+"#"+fn.Name, params, results)
		}
	}
	mod, err := rt.Instantiate(ctx, b.Build())
	if err != nil {
		return fmt.Errorf("instantiate synthesized caller: %w", err)
	}

	for i := range demo.reg.Interfaces {
		ie := &demo.reg.Interfaces[i]
		for j := range ie.Funcs {
			if err := callExport(ctx, mod, ie, &ie.Funcs[j], demo.instances[ie.ID]); err != nil {
				return err
			}
		}
	}

	// Factory round: mint a fresh instance of each interface through the
	// registry and drive the first export against it, showing the new
	// handle dispatching independently of the bound one.
	for i := range demo.reg.Interfaces {
		ie := &demo.reg.Interfaces[i]
		if len(ie.Funcs) == 0 {
			continue
		}
		h, err := demo.reg.Create(ie.ID, ie.Checksum, "fresh")
		if err != nil {
			return fmt.Errorf("create fresh %s: %w", ie.Name, err)
		}
		fmt.Printf("created %s instance %#x\n", ie.Name, uint64(h))
		if err := callExport(ctx, mod, ie, &ie.Funcs[0], h); err != nil {
			return err
		}
	}
	return nil
}

// callExport drives one trampoline against the given instance with
// canned arguments and prints the call in invocation syntax.
func callExport(ctx context.Context, mod api.Module, ie *export.InterfaceExport, fn *export.FuncExport, h handle.Handle) error {
	stack := []uint64{uint64(h)}
	args := make([]string, 0, len(fn.Type.Params))
	for _, p := range fn.Type.Params {
		k, _ := val.KindOf(p)
		arg := sampleArg(k)
		stack = append(stack, arg)
		args = append(args, val.FromBits(k, arg).String())
	}

	res, err := mod.ExportedFunction(ie.Name+"#"+fn.Name).Call(ctx, stack...)
	if err != nil {
		return fmt.Errorf("call %s#%s: %w", ie.Name, fn.Name, err)
	}

	out := ""
	if len(fn.Type.Results) > 0 && len(res) > 0 {
		k, _ := val.KindOf(fn.Type.Results[0])
		out = " = " + val.FromBits(k, res[0]).String()
	}
	fmt.Printf("%s#%s(%s)%s\n", ie.Name, fn.Name, strings.Join(args, ", "), out)
	return nil
}

// sampleArg is the canned guest-side argument for one scalar kind.
func sampleArg(k val.Kind) uint64 {
	switch k {
	case val.KindS32:
		return api.EncodeI32(2)
	case val.KindS64:
		return api.EncodeI64(2)
	case val.KindU64:
		return 2
	case val.KindF32:
		return api.EncodeF32(0.5)
	case val.KindF64:
		return api.EncodeF64(0.5)
	}
	return 0
}
