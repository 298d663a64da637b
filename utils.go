package health

func allHealthy(results map[string]Report) (healthy bool) {
	for _, v := range results {
		if !v.IsHealthy() {
			return false
		}
	}

	return true
}

func copyResultsMap(results map[string]Report) map[string]Report {
	newMap := make(map[string]Report, len(results))
	for k, v := range results {
		newMap[k] = v
	}

	return newMap
}
