package bot

import "regexp"

var (
	audioLinkRegex = regexp.MustCompile(`//\S+\.(mp3|wav|ogg)`)
	photoLinkRegex = regexp.MustCompile(`//\S+\.(jpg|png|gif)`)
)

// extractAudioLink finds an embedded audio-file link in text and returns it
// with an https scheme, or "".
func extractAudioLink(text string) string {
	match := audioLinkRegex.FindString(text)
	if match == "" {
		return ""
	}
	return "https:" + match
}

// extractPhotoLink finds an embedded image-file link in text and returns it
// with an https scheme, or "".
func extractPhotoLink(text string) string {
	match := photoLinkRegex.FindString(text)
	if match == "" {
		return ""
	}
	return "https:" + match
}
