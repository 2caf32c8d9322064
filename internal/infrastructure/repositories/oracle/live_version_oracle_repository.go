package oracle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	gh "github.com/google/go-github/v66/github"
	"github.com/hashicorp/go-cleanhttp"
	logger "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/rios0rios0/imagebump/internal/domain/entities"
	"github.com/rios0rios0/imagebump/internal/domain/repositories"
)

const (
	githubHost        = "github.com"
	latestReleasePath = "/releases/latest"
)

var (
	errEmptyAnswer   = errors.New("empty answer")
	errNotARepoURL   = errors.New("answer is not a repository URL")
	errNotAVersion   = errors.New("answer is not a single version string")
	errNoLocation    = errors.New("no Location header")
	errUnexpectedRes = errors.New("unexpected status")
)

// LiveVersionOracleRepository resolves upstream repositories and latest
// versions through the inference collaborator and the upstream host's
// "latest release" redirect. Upstream repositories are memoized per image
// for the lifetime of the instance, which is one pass.
type LiveVersionOracleRepository struct {
	inference  repositories.InferenceRepository
	noRedirect *http.Client
	github     *gh.Client
	timeout    time.Duration

	mu        sync.Mutex
	upstreams map[string]string
}

var _ repositories.VersionOracleRepository = (*LiveVersionOracleRepository)(nil)

// NewLiveVersionOracleRepository creates the live oracle. The upstream token
// is optional and only raises the GitHub API rate limit for release notes.
func NewLiveVersionOracleRepository(
	inference repositories.InferenceRepository,
	settings entities.UpstreamSettings,
) *LiveVersionOracleRepository {
	noRedirect := cleanhttp.DefaultClient()
	noRedirect.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &LiveVersionOracleRepository{
		inference:  inference,
		noRedirect: noRedirect,
		github:     newGitHubClient(settings.Token),
		timeout:    settings.Timeout,
		upstreams:  make(map[string]string),
	}
}

func newGitHubClient(token string) *gh.Client {
	if token == "" {
		return gh.NewClient(cleanhttp.DefaultPooledClient())
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return gh.NewClient(oauth2.NewClient(context.Background(), ts))
}

func (it *LiveVersionOracleRepository) ResolveUpstreamRepository(ctx context.Context, image string) (string, error) {
	it.mu.Lock()
	cached, ok := it.upstreams[image]
	it.mu.Unlock()
	if ok {
		return cached, nil
	}

	answer, err := it.inference.Complete(ctx, upstreamPrompt(image))
	if err != nil {
		return "", fmt.Errorf("%w: upstream of %q: %w", entities.ErrResolution, image, err)
	}

	upstream, err := parseRepositoryURL(answer)
	if err != nil {
		return "", fmt.Errorf("%w: upstream of %q: %w", entities.ErrResolution, image, err)
	}

	logger.Debugf("[oracle] %s is released from %s", image, upstream)
	it.mu.Lock()
	it.upstreams[image] = upstream
	it.mu.Unlock()
	return upstream, nil
}

func (it *LiveVersionOracleRepository) ResolveLatestVersion(
	ctx context.Context,
	image, currentVersion string,
) (string, error) {
	upstream, err := it.ResolveUpstreamRepository(ctx, image)
	if err != nil {
		return "", err
	}

	releaseURL, err := it.lookupLatestRelease(ctx, upstream)
	if err != nil {
		return "", err
	}
	logger.Debugf("[oracle] latest release of %s: %s", image, releaseURL)

	answer, err := it.inference.Complete(ctx, latestVersionPrompt(image, releaseURL, currentVersion))
	if err != nil {
		return "", fmt.Errorf("%w: latest version of %q: %w", entities.ErrResolution, image, err)
	}

	version, err := parseVersion(answer)
	if err != nil {
		return "", fmt.Errorf("%w: latest version of %q: %w", entities.ErrResolution, image, err)
	}
	return version, nil
}

// lookupLatestRelease asks the upstream host where its latest release lives.
// Redirects are not followed; the Location header is the answer.
func (it *LiveVersionOracleRepository) lookupLatestRelease(ctx context.Context, upstream string) (string, error) {
	ctx, cancel := it.withTimeout(ctx)
	defer cancel()

	target := strings.TrimSuffix(upstream, "/") + latestReleasePath
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", entities.ErrUpstreamUnreachable, err)
	}

	resp, err := it.noRedirect.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", entities.ErrUpstreamUnreachable, target, err)
	}
	defer resp.Body.Close()

	if !isRedirectClass(resp.StatusCode) {
		return "", fmt.Errorf("%w: %s: %w %d", entities.ErrUpstreamUnreachable, target, errUnexpectedRes, resp.StatusCode)
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", fmt.Errorf("%w: %s: %w", entities.ErrUpstreamUnreachable, target, errNoLocation)
	}
	return location, nil
}

// ReleaseNotes returns the body of the GitHub release tagged version. Hosts
// other than GitHub and missing releases yield empty notes.
func (it *LiveVersionOracleRepository) ReleaseNotes(ctx context.Context, upstreamURL, version string) (string, error) {
	owner, name, ok := githubCoordinates(upstreamURL)
	if !ok {
		return "", nil
	}

	ctx, cancel := it.withTimeout(ctx)
	defer cancel()

	for _, tag := range tagCandidates(version) {
		release, _, err := it.github.Repositories.GetReleaseByTag(ctx, owner, name, tag)
		if err != nil {
			var errResp *gh.ErrorResponse
			if errors.As(err, &errResp) && errResp.Response != nil &&
				errResp.Response.StatusCode == http.StatusNotFound {
				continue
			}
			return "", fmt.Errorf("failed to get release %q of %s/%s: %w", tag, owner, name, err)
		}
		return release.GetBody(), nil
	}

	return "", nil
}

func (it *LiveVersionOracleRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if it.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, it.timeout)
}

// isRedirectClass accepts [200,400) and 302 explicitly.
func isRedirectClass(status int) bool {
	return (status >= http.StatusOK && status < http.StatusBadRequest) || status == http.StatusFound
}

func parseRepositoryURL(answer string) (string, error) {
	fields := strings.Fields(answer)
	if len(fields) == 0 {
		return "", errEmptyAnswer
	}
	if len(fields) > 1 {
		return "", fmt.Errorf("%w: %w: %q", entities.ErrMalformedResponse, errNotARepoURL, answer)
	}

	candidate := strings.Trim(fields[0], "<>\"'`")
	u, err := url.Parse(candidate)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return "", fmt.Errorf("%w: %w: %q", entities.ErrMalformedResponse, errNotARepoURL, answer)
	}

	u.Path = strings.TrimSuffix(strings.TrimSuffix(u.Path, "/"), ".git")
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

func parseVersion(answer string) (string, error) {
	trimmed := strings.Trim(strings.TrimSpace(answer), "`\"'")
	if trimmed == "" {
		return "", errEmptyAnswer
	}
	if len(strings.Fields(trimmed)) != 1 {
		return "", fmt.Errorf("%w: %w: %q", entities.ErrMalformedResponse, errNotAVersion, answer)
	}
	return trimmed, nil
}

func githubCoordinates(upstreamURL string) (string, string, bool) {
	u, err := url.Parse(upstreamURL)
	if err != nil || !strings.EqualFold(u.Hostname(), githubHost) {
		return "", "", false
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" { //nolint:mnd // owner/name
		return "", "", false
	}
	return parts[0], strings.TrimSuffix(parts[1], ".git"), true
}

// tagCandidates tries the version as given, then with the "v" prefix toggled.
func tagCandidates(version string) []string {
	if strings.HasPrefix(version, "v") {
		return []string{version, strings.TrimPrefix(version, "v")}
	}
	return []string{version, "v" + version}
}
