package core

// BalanceHeuristic calculates the balance heuristic weight for MIS:
// nf*fPdf / (nf*fPdf + ng*gPdf). The result always lies in [0, 1].
func BalanceHeuristic(nf int, fPdf float64, ng int, gPdf float64) float64 {
	f := float64(nf) * fPdf
	g := float64(ng) * gPdf
	if f <= 0 {
		return 0
	}
	if g <= 0 {
		return 1
	}
	return f / (f + g)
}

