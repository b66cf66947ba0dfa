package page

// Title resolves the title for a template file: the per-file entry in
// pageTitles wins, then the page-wide title, then "".
func Title(fileName string, data map[string]any) string {
	if data == nil {
		return ""
	}
	if fileName != "" {
		if t := lookupTitle(data[KeyPageTitles], fileName); t != "" {
			return t
		}
	}
	if t, ok := data[KeyTitle].(string); ok {
		return t
	}
	return ""
}

func lookupTitle(titles any, fileName string) string {
	switch m := titles.(type) {
	case map[string]any:
		s, _ := m[fileName].(string)
		return s
	case map[string]string:
		return m[fileName]
	default:
		return ""
	}
}
