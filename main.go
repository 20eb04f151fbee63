package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/illarion/qpasswd/cmd"
	"github.com/illarion/qpasswd/internal/passgen"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "encrypt", "enc":
		runEncrypt(ctx, os.Args[2:])
	case "decrypt", "dec":
		runDecrypt(ctx, os.Args[2:])
	case "gen":
		runGen(ctx, os.Args[2:])
	case "fingerprint":
		runFingerprint(ctx, os.Args[2:])
	case "store":
		runStore(ctx, os.Args[2:])
	case "keyring":
		runKeyring(ctx, os.Args[2:])
	case "config":
		runConfig(ctx, os.Args[2:])
	case "completion":
		runCompletion(ctx, os.Args[2:])
	case "help", "-h", "--help":
		if len(os.Args) <= 2 {
			printUsage()
			return
		}
		printCommandHelp(os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// newFlagSet registers the flags every command shares
func newFlagSet(name string) (*flag.FlagSet, *bool) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() { printCommandHelp(name) }
	debug := fs.Bool("debug", false, "Enable debug logging")
	return fs, debug
}

func parse(fs *flag.FlagSet, args []string) {
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func passFlag(fs *flag.FlagSet) *string {
	var pass string
	fs.StringVar(&pass, "p", "", "Passphrase")
	fs.StringVar(&pass, "pass", "", "Passphrase")
	return &pass
}

func runEncrypt(ctx context.Context, args []string) {
	fs, debug := newFlagSet("encrypt")
	var opts cmd.EncryptOptions
	fs.StringVar(&opts.Source, "s", "", "Plaintext to encrypt")
	fs.StringVar(&opts.Source, "source", "", "Plaintext to encrypt")
	fs.StringVar(&opts.InPath, "in", "", "File to encrypt")
	fs.StringVar(&opts.Save, "save", "", "Keep the ciphertext in the store under this label")
	fs.BoolVar(&opts.Art, "art", false, "Print the key fingerprint to stderr")
	pass := passFlag(fs)
	parse(fs, args)

	opts.Pass = *pass
	if fs.NArg() > 0 && opts.Source == "" && opts.InPath == "" {
		opts.InPath = fs.Arg(0)
	}

	cmd.Encrypt(ctx, cmd.SetupOrExit(*debug), opts)
}

func runDecrypt(ctx context.Context, args []string) {
	fs, debug := newFlagSet("decrypt")
	var opts cmd.DecryptOptions
	fs.StringVar(&opts.Source, "s", "", "Base64 ciphertext")
	fs.StringVar(&opts.Source, "source", "", "Base64 ciphertext")
	fs.StringVar(&opts.InPath, "in", "", "Ciphertext file")
	fs.StringVar(&opts.From, "from", "", "Decrypt the stored entry with this label")
	fs.StringVar(&opts.OutPath, "out", "", "Write plaintext to this file instead of stdout")
	pass := passFlag(fs)
	parse(fs, args)

	opts.Pass = *pass
	if fs.NArg() > 0 && opts.Source == "" && opts.InPath == "" && opts.From == "" {
		opts.InPath = fs.Arg(0)
	}

	cmd.Decrypt(ctx, cmd.SetupOrExit(*debug), opts)
}

func runGen(_ context.Context, args []string) {
	fs, debug := newFlagSet("gen")
	opts := cmd.GenOptions{Count: 1}
	fs.IntVar(&opts.Length, "l", 0, "Password length")
	fs.IntVar(&opts.Length, "length", 0, "Password length")
	fs.IntVar(&opts.Count, "n", 1, "Number of passwords")
	fs.IntVar(&opts.Count, "count", 1, "Number of passwords")
	fs.StringVar(&opts.Save, "save", "", "Save the password to the OS keyring under this label")
	fs.BoolVar(&opts.ShowEntropy, "entropy", false, "Print the entropy estimate to stderr")

	selected := map[passgen.CharsetType]*bool{
		passgen.Lowercase: fs.Bool("lower", false, "Include a-z"),
		passgen.Uppercase: fs.Bool("upper", false, "Include A-Z"),
		passgen.Symbols:   fs.Bool("symbols", false, "Include _*&|!?@$#=%"),
		passgen.Numbers:   fs.Bool("numbers", false, "Include 0-9"),
		passgen.Special:   fs.Bool("special", false, "Include all ASCII punctuation"),
	}
	parse(fs, args)

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "l" || f.Name == "length" {
			opts.LengthSet = true
		}
	})

	// Fixed order so the pool does not depend on flag order
	for _, c := range passgen.AllCharsets {
		if *selected[c] {
			opts.Charsets = append(opts.Charsets, c)
		}
	}
	if opts.Count < 1 {
		fmt.Fprintln(os.Stderr, "Error: -n must be at least 1")
		os.Exit(1)
	}

	cmd.Gen(cmd.SetupOrExit(*debug), opts)
}

func runFingerprint(ctx context.Context, args []string) {
	fs, debug := newFlagSet("fingerprint")
	pass := passFlag(fs)
	parse(fs, args)

	cmd.Fingerprint(ctx, cmd.SetupOrExit(*debug), *pass)
}

func runStore(ctx context.Context, args []string) {
	if len(args) < 1 {
		printCommandHelp("store")
		os.Exit(1)
	}

	sub := args[0]
	fs, debug := newFlagSet("store")
	pass := passFlag(fs)
	out := fs.String("out", "", "Write plaintext to this file instead of stdout")
	parse(fs, args[1:])

	requireArgs := func(n int, usage string) {
		if fs.NArg() < n {
			fmt.Fprintf(os.Stderr, "Usage: qpasswd store %s\n", usage)
			os.Exit(1)
		}
	}

	switch sub {
	case "ls", "list":
		cmd.StoreList(cmd.SetupOrExit(*debug))
	case "get":
		requireArgs(1, "get [--out <file>] <label>")
		cmd.StoreGet(ctx, cmd.SetupOrExit(*debug), fs.Arg(0), *out, *pass)
	case "rm":
		requireArgs(1, "rm <label> [label...]")
		cmd.StoreRemove(cmd.SetupOrExit(*debug), fs.Args())
	case "diff":
		requireArgs(2, "diff <label> <file>")
		cmd.StoreDiff(ctx, cmd.SetupOrExit(*debug), fs.Arg(0), fs.Arg(1), *pass)
	case "compact":
		cmd.StoreCompact(cmd.SetupOrExit(*debug))
	default:
		fmt.Fprintf(os.Stderr, "Unknown store command: %s\n", sub)
		printCommandHelp("store")
		os.Exit(1)
	}
}

func runKeyring(_ context.Context, args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: qpasswd keyring <get|rm|status> <label>")
		os.Exit(1)
	}

	label := args[1]
	switch args[0] {
	case "get":
		cmd.KeyringGet(label)
	case "rm", "delete":
		cmd.KeyringDelete(label)
	case "status":
		cmd.KeyringStatus(label)
	default:
		fmt.Fprintf(os.Stderr, "Unknown keyring command: %s\n", args[0])
		fmt.Fprintln(os.Stderr, "Usage: qpasswd keyring <get|rm|status> <label>")
		os.Exit(1)
	}
}

func runConfig(_ context.Context, args []string) {
	sub := "show"
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		sub, args = args[0], args[1:]
	}

	fs, debug := newFlagSet("config")
	force := fs.Bool("force", false, "Overwrite an existing config file")
	parse(fs, args)

	switch sub {
	case "show":
		cmd.ConfigShow(cmd.SetupOrExit(*debug))
	case "init":
		cmd.ConfigInit(*force)
	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n", sub)
		printCommandHelp("config")
		os.Exit(1)
	}
}

func runCompletion(_ context.Context, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: qpasswd completion <bash|zsh|fish>")
		os.Exit(1)
	}
	cmd.Completion(args[0])
}

func printUsage() {
	fmt.Println("qpasswd - Passphrase encryption and password generation")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  qpasswd <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  encrypt      Encrypt text or a file with a passphrase")
	fmt.Println("  decrypt      Decrypt base64 text, a file or a stored entry")
	fmt.Println("  gen          Generate random passwords")
	fmt.Println("  fingerprint  Show the random art of a passphrase's key")
	fmt.Println("  store        Manage stored ciphertexts (ls, get, rm, diff, compact)")
	fmt.Println("  keyring      Manage generated passwords in the OS keyring")
	fmt.Println("  config       Show or create the config file")
	fmt.Println("  completion   Generate shell completions")
	fmt.Println("  help         Show help for a command")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  qpasswd encrypt -s \"hello world\"      # Print base64 ciphertext")
	fmt.Println("  qpasswd decrypt -s <base64>            # Print plaintext")
	fmt.Println("  qpasswd gen -l 24 --special --entropy  # One strong password")
	fmt.Println()
	fmt.Println("The passphrase is read from -p, then QPASSWD_PASSPHRASE, then a prompt.")
	fmt.Println("Use 'qpasswd help <command>' for more information about a command.")
}

func printCommandHelp(command string) {
	switch command {
	case "encrypt", "enc":
		fmt.Println("qpasswd encrypt [-s <text>|--in <file>] [-p <pass>] [--save <label>] [--art]")
		fmt.Println()
		fmt.Println("Encrypts text, a file, or piped stdin and prints base64 ciphertext.")
		fmt.Println("The passphrase prompt asks twice.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -s, --source   Plaintext to encrypt")
		fmt.Println("  --in           File to encrypt (must be inside the current directory)")
		fmt.Println("  -p, --pass     Passphrase")
		fmt.Println("  --save         Keep the ciphertext in the store instead of printing it")
		fmt.Println("  --art          Print the key fingerprint to stderr")
		fmt.Println()
		fmt.Println("Examples:")
		fmt.Println("  qpasswd encrypt -s \"hello world\"")
		fmt.Println("  qpasswd encrypt --in .env --save prod-env")
		fmt.Println("  echo secret | qpasswd encrypt")
	case "decrypt", "dec":
		fmt.Println("qpasswd decrypt [-s <base64>|--in <file>|--from <label>] [--out <file>] [-p <pass>]")
		fmt.Println()
		fmt.Println("Decrypts ciphertext and writes the plaintext to stdout or --out.")
		fmt.Println("A wrong passphrase is reported as a decryption failure.")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -s, --source   Base64 ciphertext")
		fmt.Println("  --in           Ciphertext file, base64 or raw")
		fmt.Println("  --from         Stored entry label")
		fmt.Println("  --out          Output file (inside the current directory, mode 0600)")
		fmt.Println("  -p, --pass     Passphrase")
		fmt.Println()
		fmt.Println("Warns when --out is tracked by git or not ignored.")
	case "gen":
		fmt.Println("qpasswd gen [-l <length>] [-n <count>] [--lower] [--upper] [--symbols] [--numbers] [--special] [--save <label>] [--entropy]")
		fmt.Println()
		fmt.Println("Generates random passwords. Without charset flags the configured")
		fmt.Println("charsets are used (default: lower, upper, numbers).")
		fmt.Println()
		fmt.Println("Flags:")
		fmt.Println("  -l, --length   Password length (default from config, 16)")
		fmt.Println("  -n, --count    Number of passwords (default 1)")
		fmt.Println("  --lower        a-z")
		fmt.Println("  --upper        A-Z")
		fmt.Println("  --symbols      _*&|!?@$#=%")
		fmt.Println("  --numbers      0-9")
		fmt.Println("  --special      All 32 ASCII punctuation characters")
		fmt.Println("  --save         Save the password in the OS keyring under this label")
		fmt.Println("  --entropy      Print length * log2(pool size) to stderr")
	case "fingerprint":
		fmt.Println("qpasswd fingerprint [-p <pass>]")
		fmt.Println()
		fmt.Println("Prints random art of the key derived from the passphrase.")
		fmt.Println("The same passphrase always draws the same picture.")
	case "store":
		fmt.Println("qpasswd store <ls|get|rm|diff|compact> [arguments]")
		fmt.Println()
		fmt.Println("Manages ciphertexts kept with 'encrypt --save'.")
		fmt.Println("The store holds ciphertext only; each entry needs its passphrase.")
		fmt.Println()
		fmt.Println("Commands:")
		fmt.Println("  ls                      List entries (no passphrase needed)")
		fmt.Println("  get [--out f] <label>   Decrypt an entry")
		fmt.Println("  rm <label> [label...]   Remove entries")
		fmt.Println("  diff <label> <file>     Compare an entry with a local file")
		fmt.Println("  compact                 Reclaim unused disk space")
		fmt.Println()
		fmt.Println("The store file defaults to ~/.qpasswd.db; set store_path or QPASSWD_STORE.")
	case "keyring":
		fmt.Println("qpasswd keyring <get|rm|status> <label>")
		fmt.Println()
		fmt.Println("Reads or removes passwords saved with 'gen --save'.")
	case "config":
		fmt.Println("qpasswd config [show|init [--force]]")
		fmt.Println()
		fmt.Println("'show' prints the config file location and the effective settings.")
		fmt.Println("'init' writes the defaults to ~/.config/qpasswd/config.yaml")
		fmt.Println("(or QPASSWD_CONFIG).")
	case "completion":
		fmt.Println("qpasswd completion <bash|zsh|fish>")
		fmt.Println()
		fmt.Println("Outputs shell completion script for the specified shell.")
		fmt.Println()
		fmt.Println("Setup:")
		fmt.Println("  # Bash - add to ~/.bashrc")
		fmt.Println("  eval \"$(qpasswd completion bash)\"")
		fmt.Println()
		fmt.Println("  # Zsh - add to ~/.zshrc")
		fmt.Println("  eval \"$(qpasswd completion zsh)\"")
		fmt.Println()
		fmt.Println("  # Fish - add to ~/.config/fish/config.fish")
		fmt.Println("  qpasswd completion fish | source")
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
	}
}
