package laika

/*------------------------------------------------------------------
 *
 * Purpose:	FFT layer for the spectral stages.
 *
 *		Wraps the gonum complex FFT and adds the classic
 *		two-for-one trick: two real windows ride in the real and
 *		imaginary parts of a single complex transform and get
 *		separated afterwards.  DC and Nyquist of each half are
 *		packed into element zero of the half spectrum, so a
 *		half spectrum of size/2 complex points is complete and
 *		join_two_reals + inverse reconstructs both windows
 *		exactly (up to the transform factor of size).
 *
 *----------------------------------------------------------------*/

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

type two_real_fft struct {
	size int
	plan *fourier.CmplxFFT
	work []complex128
}

func (f *two_real_fft) preset(size int) {
	f.size = size
	f.plan = fourier.NewCmplxFFT(size)
	f.work = make([]complex128, size)
}

// forward replaces buff with its unnormalized Fourier coefficients.
func (f *two_real_fft) forward(buff []complex128) {
	f.plan.Coefficients(f.work, buff)
	copy(buff, f.work)
}

// inverse replaces buff with the unnormalized inverse transform:
// inverse(forward(x)) == size * x.
func (f *two_real_fft) inverse(buff []complex128) {
	f.plan.Sequence(f.work, buff)
	copy(buff, f.work)
}

// separ_two_reals splits the transform of a buffer whose real part held
// one real window and whose imaginary part held another into the two
// half spectra.  out0[0] carries (DC, Nyquist) of the first window,
// out1[0] the same for the second.
func (f *two_real_fft) separ_two_reals(buff []complex128, out0 []complex128, out1 []complex128) {
	var half = f.size / 2

	out0[0] = complex(real(buff[0]), real(buff[half]))
	out1[0] = complex(imag(buff[0]), imag(buff[half]))

	for idx := 1; idx < half; idx++ {
		var pos = buff[idx]
		var neg = cmplx.Conj(buff[f.size-idx])
		out0[idx] = (pos + neg) / 2
		out1[idx] = (pos - neg) * complex(0, -0.5)
	}
}

// join_two_reals packs two (possibly modified) half spectra back into a
// full complex buffer, so that the inverse transform returns the first
// window in the real part and the second in the imaginary part.
func (f *two_real_fft) join_two_reals(in0 []complex128, in1 []complex128, buff []complex128) {
	var half = f.size / 2

	buff[0] = complex(real(in0[0]), real(in1[0]))
	buff[half] = complex(imag(in0[0]), imag(in1[0]))

	for idx := 1; idx < half; idx++ {
		var a = in0[idx]
		var b = in1[idx]
		buff[idx] = a + b*complex(0, 1)
		buff[f.size-idx] = cmplx.Conj(a) + cmplx.Conj(b)*complex(0, 1)
	}
}

func energy(x complex128) float64 {
	return real(x)*real(x) + imag(x)*imag(x)
}
