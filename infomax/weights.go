package infomax

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// RandomWeights draws an n×n matrix from a standard normal distribution,
// shifts and scales each row to zero mean and unit population standard
// deviation, and returns the transpose. The same seed always yields the
// same matrix.
func RandomWeights(n int, seed uint64) *mat.Dense {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	data := make([]float64, n*n)
	for i := range data {
		data[i] = rng.NormFloat64()
	}

	for i := 0; i < n; i++ {
		row := data[i*n : (i+1)*n]
		mean, sd := stat.PopMeanStdDev(row, nil)
		floats.AddConst(-mean, row)
		if sd > 0 {
			floats.Scale(1/sd, row)
		}
	}

	drawn := mat.NewDense(n, n, data)
	w := mat.NewDense(n, n, nil)
	w.Copy(drawn.T())
	return w
}
