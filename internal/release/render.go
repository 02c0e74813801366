package release

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"sort"

	"gopkg.in/yaml.v3"
)

// ManifestKind names one of the three deployable artifacts.
type ManifestKind string

const (
	ManifestMacro       ManifestKind = "macro"
	ManifestApplication ManifestKind = "application"
	ManifestTemplate    ManifestKind = "template"
)

// Kinds returns the manifest kinds in publish order. The macro must be live
// before the application that transforms through it, and the top-level
// template goes last because it is the user-facing entry point referencing
// both.
func Kinds() []ManifestKind {
	return []ManifestKind{ManifestMacro, ManifestApplication, ManifestTemplate}
}

// Manifest is a rendered manifest document together with the substitution
// map that produced it. Never mutated after creation.
type Manifest struct {
	Kind   ManifestKind
	Path   string
	Values map[string]string
}

// Placeholder names substituted into the manifest templates using the
// %name% token syntax.
const (
	placeholderCodeURI         = "codeUri"
	placeholderAppName         = "sarAppName"
	placeholderAuthorName      = "sarAuthorName"
	placeholderSemanticVersion = "semanticVersion"
	placeholderRegion          = "awsRegion"
	placeholderBucketName      = "sarBucketName"
	placeholderAccountID       = "awsAccountId"
)

var placeholderPattern = regexp.MustCompile(`%[a-zA-Z][a-zA-Z0-9]*%`)

// Substitutions returns the placeholder map for one manifest kind. All
// three share the base set; the application additionally carries the bucket
// name and the top-level template the account id.
func (r Request) Substitutions(kind ManifestKind, codeURI string) map[string]string {
	values := map[string]string{
		placeholderCodeURI:         codeURI,
		placeholderAppName:         r.AppName,
		placeholderAuthorName:      r.AuthorName,
		placeholderSemanticVersion: r.SemanticVersion,
		placeholderRegion:          r.Region,
	}

	switch kind {
	case ManifestApplication:
		values[placeholderBucketName] = r.BucketName
	case ManifestTemplate:
		values[placeholderAccountID] = r.AccountID
	case ManifestMacro:
	}

	return values
}

// Render substitutes every %name% token in the template with its value.
// Substitution is total: any token left unresolved, or an output that is
// not well-formed YAML, is a TemplateError.
func Render(kind ManifestKind, template []byte, values map[string]string) ([]byte, error) {
	out := template
	for placeholder, value := range values {
		out = bytes.ReplaceAll(out, []byte("%"+placeholder+"%"), []byte(value))
	}

	if leftover := placeholderPattern.FindAll(out, -1); len(leftover) > 0 {
		return nil, &TemplateError{Kind: kind, Tokens: uniqueTokens(leftover)}
	}

	var node yaml.Node
	if err := yaml.Unmarshal(out, &node); err != nil {
		return nil, &TemplateError{Kind: kind, Err: err}
	}

	return out, nil
}

// RenderAll renders the three manifest templates from templatesDir into the
// workspace. Rendering is pure apart from writing the rendered files and is
// order-independent between the manifests.
func RenderAll(req Request, ws *Workspace, templatesDir string) ([]Manifest, error) {
	codeURI := ws.ApplicationDir()

	manifests := make([]Manifest, 0, len(Kinds()))
	for _, kind := range Kinds() {
		raw, err := os.ReadFile(filepath.Join(templatesDir, string(kind)+".yaml"))
		if err != nil {
			return nil, &TemplateError{Kind: kind, Err: err}
		}

		values := req.Substitutions(kind, codeURI)
		out, err := Render(kind, raw, values)
		if err != nil {
			return nil, err
		}

		path := ws.Path(string(kind) + ".yaml")
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return nil, &TemplateError{Kind: kind, Err: err}
		}

		manifests = append(manifests, Manifest{Kind: kind, Path: path, Values: values})
	}

	return manifests, nil
}

func uniqueTokens(raw [][]byte) []string {
	seen := map[string]struct{}{}
	for _, token := range raw {
		seen[string(token)] = struct{}{}
	}

	tokens := make([]string, 0, len(seen))
	for token := range seen {
		tokens = append(tokens, token)
	}
	sort.Strings(tokens)

	return tokens
}
