// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	InputNotFoundId Id = iota + 1
	InputParseFailedId
	OutputReferenceMissingId
	OutputReferenceInvalidId
	ConfigLoadFailedId
	OutputWriteFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Markdown returns the full page, including the "See also" section.
func (i *Issue) Markdown() string {
	var b strings.Builder
	b.WriteString(string(i.mdMsg))
	if len(i.extLinks) > 0 {
		b.WriteString("\n\n## See also\n")
		for _, link := range i.extLinks {
			b.WriteString("- <" + string(link) + ">\n")
		}
	}
	return b.String()
}

// Render renders the page with a glamour style ("dark", "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

var (
	render = glamour.Render

	inputNotFoundIssue = &Issue{
		id: InputNotFoundId,
		mdMsg: `
# Environment file not found!

devrc needs a captured environment (JSON) to generate an rc script from.

## Where devrc looks (first match wins):
1. The --input flag
2. The envInp environment variable
3. input.path in your config file

## Things you can try:
- Pass the file explicitly:
~~~
$ devrc generate --input ./env.json
~~~

- Read the document from standard input:
~~~
$ nix print-dev-env --json | devrc generate --input -
~~~`,
		extLinks: []HttpLink{"https://nix.dev/manual/nix/stable/command-ref/new-cli/nix3-print-dev-env"},
	}

	inputParseFailedIssue = &Issue{
		id: InputParseFailedId,
		mdMsg: `
# Failed to parse the environment file!

The document must be a JSON object with two required fields:

~~~json
{
  "variables": {
    "FOO":  {"type": "var",         "value": "bar"},
    "PATH": {"type": "exported",    "value": "/bin"},
    "LIST": {"type": "array",       "value": ["a", "b"]},
    "MAP":  {"type": "associative", "value": {"k": "v"}},
    "X":    {"type": "unknown"}
  },
  "bashFunctions": {
    "greet": "echo hello\n"
  }
}
~~~

## Common issues:
- A missing "variables" or "bashFunctions" field
- A "type" other than var, exported, array, associative or unknown
- A value whose shape does not match its type

## Things you can try:
- Check the field path reported in the error above
- Run with verbose mode for the full error chain:
~~~
$ devrc --verbose generate
~~~`,
	}

	outputReferenceMissingIssue = &Issue{
		id: OutputReferenceMissingId,
		mdMsg: `
# Build output not found!

The "outputs" variable names a build output that has no matching variable,
so its path cannot be rewritten.

## Things you can try:
- Check that every name listed in "outputs" is also a variable
- Regenerate the environment file with the tool that captured it`,
	}

	outputReferenceInvalidIssue = &Issue{
		id: OutputReferenceInvalidId,
		mdMsg: `
# Build output is not a path!

Each variable named by "outputs" must hold a single path string
(type var or exported). Arrays and associative arrays cannot be rewritten.

## Things you can try:
- Inspect the environment to see the variable types:
~~~
$ devrc inspect --input ./env.json
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Your devrc config file could not be read or does not match the schema.

## Things you can try:
- Show where devrc looks for the config file:
~~~
$ devrc config path
~~~

- Recreate a default config:
~~~
$ devrc config init --force
~~~

- Example of a valid config.cue:
~~~cue
prompt: prefix: "[dev] "
rewrite: outputs_dir: "./outputs"
~~~`,
		extLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	outputWriteFailedIssue = &Issue{
		id: OutputWriteFailedId,
		mdMsg: `
# Failed to write the rc script!

## Things you can try:
- Check that the target directory exists and is writable
- Write to standard output instead and redirect it:
~~~
$ devrc generate > .devrc.sh
~~~`,
	}

	issues = map[Id]*Issue{
		inputNotFoundIssue.Id():          inputNotFoundIssue,
		inputParseFailedIssue.Id():       inputParseFailedIssue,
		outputReferenceMissingIssue.Id(): outputReferenceMissingIssue,
		outputReferenceInvalidIssue.Id(): outputReferenceInvalidIssue,
		configLoadFailedIssue.Id():       configLoadFailedIssue,
		outputWriteFailedIssue.Id():      outputWriteFailedIssue,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	values := maps.Values(issues)
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return values
}

func Get(id Id) *Issue {
	return issues[id]
}
