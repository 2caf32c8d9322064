package oracle

import "fmt"

func upstreamPrompt(image string) string {
	return fmt.Sprintf(
		"What is the GitHub repository of the Docker Hub image %s? "+
			"Only respond with the repository URL, no other text.",
		image,
	)
}

func latestVersionPrompt(image, releaseURL, currentVersion string) string {
	return fmt.Sprintf(
		"This is the latest release of %s found on GitHub:\n\n%s\n\n"+
			"This is the version pinned in the docker-compose.yml file:\n\n%s\n\n"+
			"Which version is newer? The GitHub version may be written in a slightly different format, "+
			"so respond in the format used in the docker-compose.yml file. "+
			"Do not provide any text other than the version number. "+
			"If both are the same version, respond with only the word %q.",
		image, releaseURL, currentVersion, "SAME",
	)
}
