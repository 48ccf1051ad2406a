package solve

// Package solve translates TAs, availability and coverage slots into a
// linear decision model, hands it to a solving backend and projects the
// solved variables back into slot coverage and TA workload reports.
