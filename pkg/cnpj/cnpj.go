// Package cnpj valida el Cadastro Nacional da Pessoa Jurídica (Brasil).
package cnpj

import "fmt"

// Length cantidad de dígitos de un CNPJ sin máscara.
const Length = 14

// pesos del algoritmo módulo 11 de la Receita Federal para el primer y segundo dígito verificador.
var (
	firstWeights  = [12]int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	secondWeights = [13]int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// Validate comprueba que cnpj tenga exactamente 14 dígitos (sin máscara), que no sean
// todos iguales y que ambos dígitos verificadores coincidan.
func Validate(cnpj string) error {
	if len(cnpj) != Length {
		return fmt.Errorf("cnpj: debe tener %d dígitos, se recibieron %d caracteres", Length, len(cnpj))
	}
	for _, r := range cnpj {
		if r < '0' || r > '9' {
			return fmt.Errorf("cnpj: solo se admiten dígitos")
		}
	}
	if allEqual(cnpj) {
		return fmt.Errorf("cnpj: todos los dígitos son iguales")
	}

	first := checkDigit(cnpj[:12], firstWeights[:])
	if cnpj[12] != first {
		return fmt.Errorf("cnpj: primer dígito verificador inválido: esperado %c, recibido %c", first, cnpj[12])
	}
	second := checkDigit(cnpj[:13], secondWeights[:])
	if cnpj[13] != second {
		return fmt.Errorf("cnpj: segundo dígito verificador inválido: esperado %c, recibido %c", second, cnpj[13])
	}
	return nil
}

// IsValid atajo booleano de Validate.
func IsValid(cnpj string) bool {
	return Validate(cnpj) == nil
}

// Normalize quita la máscara (puntos, barra, guion) y deja solo los dígitos.
func Normalize(s string) string {
	out := make([]byte, 0, Length)
	for _, r := range s {
		if r >= '0' && r <= '9' {
			out = append(out, byte(r))
		}
	}
	return string(out)
}

func checkDigit(base string, weights []int) byte {
	var sum int
	for i := 0; i < len(base); i++ {
		sum += int(base[i]-'0') * weights[i]
	}
	rem := sum % 11
	if rem < 2 {
		return '0'
	}
	return byte('0' + (11 - rem))
}

func allEqual(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}
