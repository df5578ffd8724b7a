package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bcx-comics/macpack"
)

var (
	descriptorPath string
	langCode       string
	verbose        bool
	dryRun         bool
	logFilename    string
)

func Execute() error {
	macpack.OpenResources()
	msg := macpack.NewTranslator()

	var logfile *os.File
	root := &cobra.Command{
		Use:           "macpack",
		Short:         msg.Get("cli_short"),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
			logfile, err = macpack.InitLogging(verbose, logFilename)
			return err
		},
	}

	root.PersistentFlags().StringVarP(&descriptorPath, "file", "f", "",
		msg.Get("cli_help_file")+" (default "+macpack.DescriptorFilename+")")
	root.PersistentFlags().StringVar(&langCode, "lang", "",
		msg.Get("cli_help_lang")+": "+strings.Join(msg.LanguageOptions(), ", "))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, msg.Get("cli_help_verbose"))
	root.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, msg.Get("cli_help_dry_run"))
	root.PersistentFlags().StringVar(&logFilename, "log", "", msg.Get("cli_help_log"))

	root.AddCommand(bundleCmd(), dmgCmd(), distCmd(), cleanCmd(), initCmd())
	err := root.Execute()
	if logfile != nil {
		logfile.Close()
	}
	return err
}

// load reads the build descriptor and prepares a translator whose messages
// can reference the descriptor's paths and metadata.
func load() (*macpack.Descriptor, *macpack.Translator, error) {
	desc, err := macpack.LoadDescriptor(descriptorPath)
	if err != nil {
		return nil, nil, err
	}
	msg := macpack.NewTranslatorVar(macpack.MergeVariables(desc.Variables(), macpack.StringMap{
		"bundlePath": desc.BundlePath(),
		"imagePath":  desc.ImagePath(),
	}))
	if langCode != "" {
		if err := msg.SetLanguage(langCode); err != nil {
			return nil, nil, fmt.Errorf("language '%s' not available", langCode)
		}
	}
	return desc, msg, nil
}

// runSteps executes the given pipeline steps with terminal progress output.
func runSteps(cmd *cobra.Command, steps ...macpack.Step) error {
	pipeline := macpack.NewPipeline(steps...)
	pipeline.SetProgressFunction(func(current, total int, name string) {
		fmt.Printf("[%d/%d] %s\n", current, total, name)
	})
	return pipeline.Run(cmd.Context())
}
