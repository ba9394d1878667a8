package prs

var (
	// testInsecure are insecure parameters used for the sole purpose of fast testing.
	testInsecure = []ParametersLiteral{
		{
			K:     64,
			NBits: 512,
		},
		{
			K:         16,
			NBits:     256,
			BlindBits: 8,
		},
		{
			K:            8,
			NBits:        256,
			StrongPrimes: true,
		},
		{
			K:     1,
			NBits: 64,
		},
	}
)
