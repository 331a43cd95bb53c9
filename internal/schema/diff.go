package schema

// DiffPresence returns the names of columns present in left but not in right,
// in ascending order.
func DiffPresence(left, right Columns) []string {
	var missing []string
	for _, name := range left.Names() {
		if !right.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}
