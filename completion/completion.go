// Package completion emits shell completion scripts. The scripts call the
// program back with "completion candidates <line>" to get context-aware
// suggestions, so they stay valid as the command tree evolves.
package completion

import (
	"fmt"
	"strings"
)

// Shells returns the supported shell names.
func Shells() []string {
	return []string{"bash", "zsh", "fish", "powershell"}
}

// Script returns the completion script for the given shell. The program name
// is embedded verbatim, so it must match the installed binary name.
func Script(shell, program string) (string, error) {
	fn := safeName(program)
	switch strings.ToLower(shell) {
	case "bash":
		return fmt.Sprintf(bashTemplate, fn, program), nil
	case "zsh":
		return fmt.Sprintf(zshTemplate, fn, program), nil
	case "fish":
		return fmt.Sprintf(fishTemplate, fn, program), nil
	case "powershell", "pwsh":
		return fmt.Sprintf(powershellTemplate, program, program), nil
	default:
		return "", fmt.Errorf("completion: unsupported shell %q", shell)
	}
}

// safeName turns a program name into a valid shell function suffix.
func safeName(program string) string {
	var b strings.Builder
	for _, r := range program {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

const bashTemplate = `# bash completion
_complete_%[1]s() {
    local line="${COMP_LINE:${#COMP_WORDS[0]}}"
    local candidates
    candidates=$(%[2]s completion candidates "${line}" 2>/dev/null)
    COMPREPLY=()
    while IFS= read -r candidate; do
        [[ -n "${candidate}" ]] && COMPREPLY+=("${candidate}")
    done < <(compgen -W "${candidates}" -- "${COMP_WORDS[COMP_CWORD]}")
}
complete -F _complete_%[1]s %[2]s
# install: source <(%[2]s completion bash)`

const zshTemplate = `#compdef %[2]s
_complete_%[1]s() {
    local line="${words[2,-1]}"
    local -a candidates
    candidates=(${(f)"$(%[2]s completion candidates "${line}" 2>/dev/null)"})
    compadd -a candidates
}
compdef _complete_%[1]s %[2]s
# install: source <(%[2]s completion zsh)`

const fishTemplate = `# fish completion
function __complete_%[1]s
    set -l line (commandline -cp | string replace -r '^\S+\s*' '')
    %[2]s completion candidates "$line" 2>/dev/null
end
complete -c %[2]s -f -a '(__complete_%[1]s)'
# install: %[2]s completion fish | source`

const powershellTemplate = `# powershell completion
Register-ArgumentCompleter -Native -CommandName %s -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)
    $line = $commandAst.ToString() -replace '^\S+\s*', ''
    %s completion candidates "$line" 2>$null | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
    }
}`
