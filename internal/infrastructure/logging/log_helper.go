package logging

func logParamsToZapParams(cat Category, sub SubCategory, keys map[ExtraKey]any) []any {
	params := make([]any, 0, len(keys)*2+4)

	params = append(params, categoryKey, string(cat))
	params = append(params, subCategoryKey, string(sub))

	for k, v := range keys {
		params = append(params, string(k))
		params = append(params, v)
	}

	return params
}

func logParamsToZeroParams(keys map[ExtraKey]any) map[string]any {
	params := make(map[string]any, len(keys))

	for k, v := range keys {
		params[string(k)] = v
	}

	return params
}
