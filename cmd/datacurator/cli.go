package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/n2code/datacurator"
	"github.com/n2code/datacurator/cmd/datacurator/flags"
	"github.com/n2code/datacurator/internal/config"
	"github.com/n2code/datacurator/internal/output"
)

type CliRequest struct {
	verbose    bool
	quiet      bool
	configFile string
	printTree  bool
	action     string
	dataset    datacurator.Dataset
}

func parseFlags(args []string, out io.Writer, errOut io.Writer) (request *CliRequest, exitCode int) {
	flagSet := flag.NewFlagSet("datacurator", flag.ContinueOnError)
	flagSet.SetOutput(errOut)
	flagSet.Usage = func() {
		fmt.Fprint(flagSet.Output(), `
Usage:
   datacurator [-v|-q] [-c CONFIG] [-tree] [-h] <ACTION>

 ACTIONs:
   places          Extract the desired classes of the scene archive into
                   per-environment train and shared val directories.
   vpc             Unpack all home archives and sort the labelled frames of
                   every floor into class directories, delete the rest.
   tree <DATASET>  Display the directory tree of a dataset (places or vpc).

 Both pipelines WIPE their output directories before starting.

`)
		flagSet.PrintDefaults()
		fmt.Fprintf(flagSet.Output(), `
 Without -c the nearest .datacurator.yaml is searched from the working
 directory upwards. Dataset roots can be overridden by environment:
   %s  %s  %s

`, config.EnvPlacesDir, config.EnvVpcDir, config.EnvLabelsDir)
	}

	request = &CliRequest{}
	var generalHelpRequested bool
	flagSet.BoolVar(&request.verbose, flags.Verbose, false, "Output every extracted, moved and ignored item (verbose mode)")
	flagSet.BoolVar(&request.quiet, flags.Quiet, false, "Output only errors and requested information (quiet mode)")
	flagSet.BoolVar(&generalHelpRequested, flags.Help, false, "Display usage help")
	flagSet.StringVar(&request.configFile, flags.Config, "", "Use the given configuration `FILE`")
	flagSet.BoolVar(&request.printTree, flags.Tree, false, "Display the resulting dataset tree after a pipeline run")

	var err error
	defer func() {
		if err != nil {
			fmt.Fprintf(errOut, "%s\nUsage help: datacurator -h\n", err)
			exitCode = 2
			request = nil
		}
	}()

	if parseErr := flagSet.Parse(args); parseErr != nil {
		if errors.Is(parseErr, flag.ErrHelp) {
			return nil, 0
		}
		return nil, 2
	}

	if generalHelpRequested {
		flagSet.SetOutput(out)
		flagSet.Usage()
		return nil, 0
	}
	if flagSet.NArg() == 0 {
		err = errors.New("No action given!")
		return
	}
	if request.verbose && request.quiet {
		err = errors.New("Quiet mode and verbose mode are mutually exclusive!")
		return
	}

	request.action = flagSet.Arg(0)
	actionArgs := flagSet.Args()[1:]
	switch request.action {
	case "places", "vpc":
		if len(actionArgs) > 0 {
			err = fmt.Errorf(`action "%s" accepts no arguments`, request.action)
			return
		}
		request.dataset, _ = datacurator.ParseDataset(request.action)
	case "tree":
		if len(actionArgs) != 1 {
			err = errors.New(`action "tree" expects exactly one DATASET (places or vpc)`)
			return
		}
		dataset, known := datacurator.ParseDataset(actionArgs[0])
		if !known {
			err = fmt.Errorf(`unknown dataset "%s"`, actionArgs[0])
			return
		}
		request.dataset = dataset
		request.printTree = true
	default:
		err = fmt.Errorf(`unknown action "%s"`, request.action)
	}
	return
}

func (rq *CliRequest) execute() error {
	var options datacurator.CreateConfig
	if rq.verbose {
		options.Verbosity = datacurator.VerboseMode
	}
	if rq.quiet {
		options.Verbosity = datacurator.QuietMode
	}

	settings, err := config.Load(rq.configFile)
	if err != nil {
		return err
	}
	api := datacurator.New(settings, options)

	switch rq.action {
	case "places":
		err = api.PreparePlaces()
	case "vpc":
		err = api.PrepareVpc()
	case "tree":
	default:
		panic("bad action")
	}
	if err != nil {
		return err
	}
	if rq.printTree {
		return api.PrintTree(rq.dataset)
	}
	return nil
}

func main() {
	rq, rc := parseFlags(os.Args[1:], os.Stdout, os.Stderr)
	if rc != 0 || rq == nil {
		os.Exit(rc)
	}
	if err := rq.execute(); err != nil {
		message := fmt.Sprintln(err)
		if output.EscapesSupported(os.Stderr) {
			message = output.TerminalFormatAsError(message)
		}
		fmt.Fprint(os.Stderr, message)
		os.Exit(1)
	}
	os.Exit(0)
}
