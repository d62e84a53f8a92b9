package usecase

// ReconcileImages computes a listing's next ordered image-URL list.
//
// Replace mode discards the existing set entirely and keeps only the new
// uploads, even if that leaves the listing with zero images. Append mode
// drops the removed URLs from the existing list (order of the survivors
// preserved, unknown removals ignored) and appends the uploads at the end.
func ReconcileImages(existing, removed, uploaded []string, replace bool) []string {
	if replace {
		result := make([]string, len(uploaded))
		copy(result, uploaded)
		return result
	}

	removedSet := make(map[string]struct{}, len(removed))
	for _, url := range removed {
		removedSet[url] = struct{}{}
	}

	result := make([]string, 0, len(existing)+len(uploaded))
	for _, url := range existing {
		if _, gone := removedSet[url]; !gone {
			result = append(result, url)
		}
	}
	return append(result, uploaded...)
}

// PrimaryImage returns the display image for a list, empty when there is
// none. Position 0 is always the primary.
func PrimaryImage(urls []string) string {
	if len(urls) == 0 {
		return ""
	}
	return urls[0]
}
