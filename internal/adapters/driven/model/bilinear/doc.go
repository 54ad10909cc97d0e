// Package bilinear loads FaceScape-style bilinear morphable models stored as
// numpy .npz archives and evaluates them.
//
// The archive must contain:
//
//	shape_bm_core  (3V, I, E) float32 or float64 core tensor
//	id_mean        (I,)       identity prior mean
//	id_var         (I,)       identity prior variance
//	fv_indices     (F, k)     face vertex indices
//
// and may contain vt_list (T, 2) and ft_indices (F, k) for texture layout.
// Face indices may be zero- or one-based; they are normalised to zero-based.
package bilinear
