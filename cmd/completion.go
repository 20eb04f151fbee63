package cmd

import (
	"fmt"
	"os"
)

// Completion outputs shell completion scripts
func Completion(shell string) {
	switch shell {
	case "bash":
		fmt.Print(bashCompletion)
	case "zsh":
		fmt.Print(zshCompletion)
	case "fish":
		fmt.Print(fishCompletion)
	default:
		fmt.Fprintf(os.Stderr, "Unknown shell: %s\nSupported: bash, zsh, fish\n", shell)
		os.Exit(1)
	}
}

const bashCompletion = `_qpasswd() {
    local cur prev words cword
    _init_completion || return

    local commands="encrypt decrypt gen fingerprint store keyring config help completion"

    if [[ $cword -eq 1 ]]; then
        COMPREPLY=($(compgen -W "$commands" -- "$cur"))
        return
    fi

    local cmd="${words[1]}"
    case "$cmd" in
        encrypt)
            case "$prev" in
                --in) _filedir; return ;;
            esac
            COMPREPLY=($(compgen -W "-s --source --in -p --pass --save --art --debug" -- "$cur"))
            ;;
        decrypt)
            case "$prev" in
                --in|--out) _filedir; return ;;
                --from)
                    COMPREPLY=($(compgen -W "$(_qpasswd_labels)" -- "$cur"))
                    return
                    ;;
            esac
            COMPREPLY=($(compgen -W "-s --source --in --from --out -p --pass --debug" -- "$cur"))
            ;;
        gen)
            COMPREPLY=($(compgen -W "-l --length -n --count --lower --upper --symbols --numbers --special --save --entropy --debug" -- "$cur"))
            ;;
        fingerprint)
            COMPREPLY=($(compgen -W "-p --pass --debug" -- "$cur"))
            ;;
        store)
            if [[ $cword -eq 2 ]]; then
                COMPREPLY=($(compgen -W "ls get rm diff compact" -- "$cur"))
            elif [[ "$cur" == -* ]]; then
                COMPREPLY=($(compgen -W "--out -p --pass --debug" -- "$cur"))
            else
                COMPREPLY=($(compgen -W "$(_qpasswd_labels)" -- "$cur"))
            fi
            ;;
        keyring)
            COMPREPLY=($(compgen -W "get rm status" -- "$cur"))
            ;;
        config)
            COMPREPLY=($(compgen -W "show init --force" -- "$cur"))
            ;;
        help)
            COMPREPLY=($(compgen -W "$commands" -- "$cur"))
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "$cur"))
            ;;
    esac
}

_qpasswd_labels() {
    qpasswd store ls 2>/dev/null | awk 'f{print $1} /^LABEL/{f=1}'
}

complete -F _qpasswd qpasswd
`

const zshCompletion = `#compdef qpasswd

_qpasswd() {
    local -a commands
    commands=(
        'encrypt:Encrypt text or a file with a passphrase'
        'decrypt:Decrypt base64 text, a file or a stored entry'
        'gen:Generate random passwords'
        'fingerprint:Show the random art of a passphrase key'
        'store:Manage stored ciphertexts'
        'keyring:Manage generated passwords in the OS keyring'
        'config:Show or create the config file'
        'help:Show help for a command'
        'completion:Generate shell completions'
    )

    _arguments -C \
        '1: :->command' \
        '*: :->args'

    case "$state" in
        command)
            _describe -t commands 'qpasswd commands' commands
            ;;
        args)
            case "${words[2]}" in
                encrypt)
                    _arguments \
                        '(-s --source)'{-s,--source}'[Plaintext]:text' \
                        '--in[Plaintext file]:file:_files' \
                        '(-p --pass)'{-p,--pass}'[Passphrase]:passphrase' \
                        '--save[Keep ciphertext in the store]:label' \
                        '--art[Print key fingerprint]'
                    ;;
                decrypt)
                    _arguments \
                        '(-s --source)'{-s,--source}'[Base64 ciphertext]:text' \
                        '--in[Ciphertext file]:file:_files' \
                        '--from[Stored entry]:label:_qpasswd_labels' \
                        '--out[Plaintext file]:file:_files' \
                        '(-p --pass)'{-p,--pass}'[Passphrase]:passphrase'
                    ;;
                gen)
                    _arguments \
                        '(-l --length)'{-l,--length}'[Password length]:length' \
                        '(-n --count)'{-n,--count}'[Number of passwords]:count' \
                        '--lower[Use a-z]' \
                        '--upper[Use A-Z]' \
                        '--symbols[Use _*&|!?@$#=%]' \
                        '--numbers[Use 0-9]' \
                        '--special[Use all ASCII punctuation]' \
                        '--save[Save to OS keyring]:label' \
                        '--entropy[Print entropy estimate]'
                    ;;
                store)
                    if (( CURRENT == 3 )); then
                        _values 'subcommand' ls get rm diff compact
                    else
                        _qpasswd_labels
                    fi
                    ;;
                keyring)
                    _values 'subcommand' get rm status
                    ;;
                config)
                    _values 'subcommand' show init
                    ;;
                help)
                    _describe -t commands 'qpasswd commands' commands
                    ;;
                completion)
                    _values 'shell' bash zsh fish
                    ;;
            esac
            ;;
    esac
}

_qpasswd_labels() {
    local -a labels
    labels=(${(f)"$(qpasswd store ls 2>/dev/null | awk 'f{print $1} /^LABEL/{f=1}')"})
    _describe -t labels 'stored entries' labels
}

_qpasswd "$@"
`

const fishCompletion = `# qpasswd fish completions

set -l commands encrypt decrypt gen fingerprint store keyring config help completion

complete -c qpasswd -f

# Commands
complete -c qpasswd -n "not __fish_seen_subcommand_from $commands" -a encrypt -d 'Encrypt with a passphrase'
complete -c qpasswd -n "not __fish_seen_subcommand_from $commands" -a decrypt -d 'Decrypt with a passphrase'
complete -c qpasswd -n "not __fish_seen_subcommand_from $commands" -a gen -d 'Generate passwords'
complete -c qpasswd -n "not __fish_seen_subcommand_from $commands" -a fingerprint -d 'Show passphrase key art'
complete -c qpasswd -n "not __fish_seen_subcommand_from $commands" -a store -d 'Manage stored ciphertexts'
complete -c qpasswd -n "not __fish_seen_subcommand_from $commands" -a keyring -d 'Manage keyring passwords'
complete -c qpasswd -n "not __fish_seen_subcommand_from $commands" -a config -d 'Show or create the config file'
complete -c qpasswd -n "not __fish_seen_subcommand_from $commands" -a help -d 'Show help'
complete -c qpasswd -n "not __fish_seen_subcommand_from $commands" -a completion -d 'Generate completions'

# encrypt flags
complete -c qpasswd -n "__fish_seen_subcommand_from encrypt" -s s -l source -r -d 'Plaintext'
complete -c qpasswd -n "__fish_seen_subcommand_from encrypt" -l in -r -F -d 'Plaintext file'
complete -c qpasswd -n "__fish_seen_subcommand_from encrypt" -l save -r -d 'Store label'
complete -c qpasswd -n "__fish_seen_subcommand_from encrypt" -l art -d 'Print key fingerprint'

# decrypt flags
complete -c qpasswd -n "__fish_seen_subcommand_from decrypt" -s s -l source -r -d 'Base64 ciphertext'
complete -c qpasswd -n "__fish_seen_subcommand_from decrypt" -l in -r -F -d 'Ciphertext file'
complete -c qpasswd -n "__fish_seen_subcommand_from decrypt" -l from -r -a "(qpasswd store ls 2>/dev/null | awk 'f{print \$1} /^LABEL/{f=1}')" -d 'Stored entry'
complete -c qpasswd -n "__fish_seen_subcommand_from decrypt" -l out -r -F -d 'Plaintext file'

# gen flags
complete -c qpasswd -n "__fish_seen_subcommand_from gen" -s l -l length -r -d 'Password length'
complete -c qpasswd -n "__fish_seen_subcommand_from gen" -s n -l count -r -d 'Number of passwords'
complete -c qpasswd -n "__fish_seen_subcommand_from gen" -l lower -d 'Use a-z'
complete -c qpasswd -n "__fish_seen_subcommand_from gen" -l upper -d 'Use A-Z'
complete -c qpasswd -n "__fish_seen_subcommand_from gen" -l symbols -d 'Use a short symbol set'
complete -c qpasswd -n "__fish_seen_subcommand_from gen" -l numbers -d 'Use 0-9'
complete -c qpasswd -n "__fish_seen_subcommand_from gen" -l special -d 'Use all ASCII punctuation'
complete -c qpasswd -n "__fish_seen_subcommand_from gen" -l save -r -d 'Save to OS keyring'
complete -c qpasswd -n "__fish_seen_subcommand_from gen" -l entropy -d 'Print entropy estimate'

# passphrase flag
complete -c qpasswd -n "__fish_seen_subcommand_from encrypt decrypt fingerprint store" -s p -l pass -r -d 'Passphrase'

# store and keyring subcommands
complete -c qpasswd -n "__fish_seen_subcommand_from store; and not __fish_seen_subcommand_from ls get rm diff compact" -a "ls get rm diff compact"
complete -c qpasswd -n "__fish_seen_subcommand_from keyring; and not __fish_seen_subcommand_from get rm status" -a "get rm status"

complete -c qpasswd -n "__fish_seen_subcommand_from config; and not __fish_seen_subcommand_from show init" -a "show init"

# help completions
complete -c qpasswd -n "__fish_seen_subcommand_from help" -a "$commands"

# completion completions
complete -c qpasswd -n "__fish_seen_subcommand_from completion" -a "bash zsh fish"
`
