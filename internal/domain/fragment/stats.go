package fragment

// Stats summarizes the indexed corpus. Categories and Destinations are
// distinct attribute values, sorted.
type Stats struct {
	TotalFragments int
	Categories     []string
	Destinations   []string
}
