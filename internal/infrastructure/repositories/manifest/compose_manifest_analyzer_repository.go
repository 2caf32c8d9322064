package manifest

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
	"github.com/rios0rios0/imagebump/internal/domain/repositories"
)

const (
	servicesKey = "services"
	imageKey    = "image"
)

var (
	errNoServices = errors.New("manifest has no services mapping")

	// defaultedVarPattern matches ${VAR:-default} and ${VAR-default}.
	defaultedVarPattern = regexp.MustCompile(`^\$\{[A-Za-z_][A-Za-z0-9_]*:?-([^}]*)}$`)
)

// ComposeManifestAnalyzerRepository reads docker-compose files with a YAML
// parser instead of the inference collaborator. Pinned versions are either
// plain tags or the default of a ${VAR:-default} interpolation.
type ComposeManifestAnalyzerRepository struct{}

var _ repositories.ManifestAnalyzerRepository = (*ComposeManifestAnalyzerRepository)(nil)

func NewComposeManifestAnalyzerRepository() *ComposeManifestAnalyzerRepository {
	return &ComposeManifestAnalyzerRepository{}
}

func (it *ComposeManifestAnalyzerRepository) CurrentVersions(
	_ context.Context,
	document string,
) (map[string]string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(document), &root); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	services := mappingValue(documentMapping(&root), servicesKey)
	if services == nil || services.Kind != yaml.MappingNode {
		return nil, errNoServices
	}

	versions := make(map[string]string)
	for i := 1; i < len(services.Content); i += 2 {
		ref := mappingValue(services.Content[i], imageKey)
		if ref == nil || ref.Kind != yaml.ScalarNode {
			continue
		}

		name, version, ok := splitImageReference(ref.Value)
		if !ok {
			logger.Debugf("[manifest] Skipping %q: no pinned version", ref.Value)
			continue
		}
		if idx, _ := entities.FindDeclarationLine(document, name, version); idx < 0 {
			logger.Warnf("[manifest] Skipping %q: its line is not written as %q", ref.Value, entities.DeclarationToken(name))
			continue
		}
		if pinned, seen := versions[name]; seen && pinned != version {
			logger.Warnf("[manifest] %s is pinned at %s and %s, tracking the first", name, pinned, version)
			continue
		}
		versions[name] = version
	}
	return versions, nil
}

// ReplacementLine rewrites the version on the declaring line, keeping
// everything else on that line as written.
func (it *ComposeManifestAnalyzerRepository) ReplacementLine(
	_ context.Context,
	document string,
	image entities.TrackedImage,
) (entities.LineEdit, error) {
	idx, line := entities.FindDeclarationLine(document, image.Name, image.CurrentVersion)
	if idx < 0 {
		return entities.LineEdit{}, fmt.Errorf("%w: %s at %s", entities.ErrManifestMatch, image.Name, image.CurrentVersion)
	}

	token := entities.DeclarationToken(image.Name)
	split := strings.Index(line, token) + len(token)
	updated := line[:split] + strings.Replace(line[split:], image.CurrentVersion, image.LatestVersion, 1)
	return entities.NewLineEdit(updated), nil
}

func documentMapping(root *yaml.Node) *yaml.Node {
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		return root.Content[0]
	}
	return root
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

// splitImageReference splits "registry:5000/org/name:tag@digest" into name
// and version. The tag may be a defaulted variable interpolation.
func splitImageReference(ref string) (string, string, bool) {
	ref = strings.TrimSpace(ref)
	if at := strings.Index(ref, "@"); at >= 0 {
		ref = ref[:at]
	}

	slash := strings.LastIndex(ref, "/")
	colon := strings.Index(ref[slash+1:], ":")
	if colon < 0 {
		return "", "", false
	}
	colon += slash + 1

	name, tag := ref[:colon], ref[colon+1:]
	if match := defaultedVarPattern.FindStringSubmatch(tag); match != nil {
		tag = match[1]
	}
	if name == "" || tag == "" || strings.Contains(tag, "${") {
		return "", "", false
	}
	return name, tag, true
}
