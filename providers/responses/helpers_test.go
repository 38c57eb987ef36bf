package responses

func intPtr(i int) *int {
	return &i
}

func boolPtr(b bool) *bool {
	return &b
}
