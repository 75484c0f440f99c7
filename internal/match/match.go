// Package match cruza colecciones por clave de negocio (código de OT,
// proceso+etapa) en vez de por id interno, que no es estable entre un export
// y una consulta viva.
package match

// Index arma un índice por clave. Ante claves repetidas gana la primera,
// para que el orden de entrada siga mandando.
func Index[T any, K comparable](items []T, key func(T) K) map[K]T {
	m := make(map[K]T, len(items))
	for _, it := range items {
		k := key(it)
		if _, ok := m[k]; !ok {
			m[k] = it
		}
	}
	return m
}

// Missing devuelve los elementos de items cuya clave no aparece en idx,
// en el orden de entrada.
func Missing[T any, K comparable](items []T, idx map[K]T, key func(T) K) []T {
	var out []T
	for _, it := range items {
		if _, ok := idx[key(it)]; !ok {
			out = append(out, it)
		}
	}
	return out
}
