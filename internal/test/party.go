package test

// ShareOwners returns, for each share in order, the index of the party holding it.
func ShareOwners(partyShareCounts []int) []int {
	var owners []int
	for party, count := range partyShareCounts {
		for j := 0; j < count; j++ {
			owners = append(owners, party)
		}
	}
	return owners
}

// Subshares returns, for each share in order, its position among its party's shares.
func Subshares(partyShareCounts []int) []int {
	var subshares []int
	for _, count := range partyShareCounts {
		for j := 0; j < count; j++ {
			subshares = append(subshares, j)
		}
	}
	return subshares
}
