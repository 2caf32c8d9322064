package manifest

import "fmt"

func currentVersionsPrompt(document string) string {
	return "Read this docker-compose.yml file and find all the images used and the default versions that have been set. " +
		"Don't include any results that aren't directly images. " +
		"Only respond with a JSON object mapping each image to its version, with no other text.\n\n" +
		document
}

func replacementLinePrompt(document, image, currentVersion, latestVersion string) string {
	return fmt.Sprintf(
		"I have this docker-compose.yml file. I want to change the default version of the image %s from %s to %s. "+
			"Keep all the other content of the line identical, only change the version. "+
			"Do not return the entire file. Only respond with the number of spaces to indent the line "+
			"and the contents of the changed line, in the format:\n\n"+
			`{"indentation": "<NUMBER_OF_SPACES>", "updatedLine": "<CHANGED_LINE_CONTENT>"}`+
			"\n\n%s",
		image, currentVersion, latestVersion, document,
	)
}
