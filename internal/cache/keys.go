package cache

// Cache keys are deterministic strings derived from entity kind + id. Every
// writer and reader of a derived value must agree on these builders.

func MemberContributionsKey(memberID string) string {
	return "member-contributions:" + memberID
}

func ContributionKey(contributionID string) string {
	return "contribution:" + contributionID
}

func MemberEligibilityKey(memberID string) string {
	return "member-eligibility:" + memberID
}

func MemberTotalKey(memberID string) string {
	return "member-total:" + memberID
}
