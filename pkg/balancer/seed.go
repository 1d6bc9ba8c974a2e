package balancer

import "math/rand"

// targetSizes returns the fixed per-index group sizes. With N = q*G + r, the
// first r groups get q+1 members and the rest get q. Pinning the larger
// groups to the low indexes removes a symmetry dimension from the search.
func targetSizes(total, numGroups int) []int {
	base := total / numGroups
	remainder := total % numGroups
	sizes := make([]int, numGroups)
	for i := range sizes {
		if i < remainder {
			sizes[i] = base + 1
		} else {
			sizes[i] = base
		}
	}
	return sizes
}

// randomState builds a random feasible starting partition. When respectStars
// is set, advantaged participants are shuffled and seeded round-robin before
// anyone else, so star counts start near-even regardless of later moves.
func randomState(participants []Participant, numGroups int, respectStars bool, rng *rand.Rand) []Group {
	groups := make([]Group, numGroups)
	for i := range groups {
		groups[i] = Group{ID: i + 1}
	}

	var stars, normals []Participant
	for _, p := range participants {
		if respectStars && p.Advantaged {
			stars = append(stars, p)
		} else {
			normals = append(normals, p)
		}
	}
	rng.Shuffle(len(stars), func(i, j int) { stars[i], stars[j] = stars[j], stars[i] })
	rng.Shuffle(len(normals), func(i, j int) { normals[i], normals[j] = normals[j], normals[i] })

	targets := targetSizes(len(participants), numGroups)

	// A group is safe to receive the next member if it has room left and the
	// rest of the pool can still fill every other group to its target.
	isSafe := func(gi, poolRemaining int) bool {
		if len(groups[gi].Members) >= targets[gi] {
			return false
		}
		needed := 0
		for j := range groups {
			if j == gi {
				continue
			}
			if d := targets[j] - len(groups[j].Members); d > 0 {
				needed += d
			}
		}
		return poolRemaining-1 >= needed
	}

	pool := len(stars) + len(normals)
	for i, s := range stars {
		gi := i % numGroups
		groups[gi].Members = append(groups[gi].Members, s)
		pool--
	}

	valid := make([]int, 0, numGroups)
	for _, n := range normals {
		valid = valid[:0]
		for gi := range groups {
			if isSafe(gi, pool) {
				valid = append(valid, gi)
			}
		}
		var gi int
		if len(valid) > 0 {
			gi = valid[rng.Intn(len(valid))]
		} else {
			// Unreachable when the size math is consistent, kept as a
			// fallback so a placement always happens.
			gi = rng.Intn(numGroups)
		}
		groups[gi].Members = append(groups[gi].Members, n)
		pool--
	}

	recompute(groups)
	return groups
}
