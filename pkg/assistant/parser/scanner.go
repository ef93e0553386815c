package parser

// scanTopLevel percorre s e devolve, em ordem, os valores JSON de nível superior
// (objetos ou arrays, conforme openers) cujos delimitadores estão balanceados.
//
// Contêineres que não estão em openers também são pulados por inteiro, então o
// array dentro de {"actions": [...]} não é de nível superior. Um delimitador de
// abertura sem fechamento é ignorado e a varredura continua no byte seguinte.
// É seguro iterar bytes porque os delimitadores são ASCII e nunca aparecem
// dentro de uma sequência UTF-8 multibyte.
func scanTopLevel(s string, openers string) []string {
	var candidates []string

	closes := matchPairs(s)
	for i := 0; i < len(s); {
		b := s[i]
		end, ok := closes[i]
		if !ok {
			i++
			continue
		}
		if isOpener(b, openers) {
			candidates = append(candidates, s[i:end+1])
		}
		i = end + 1
	}

	return candidates
}

// matchPairs casa, em uma única passada, cada delimitador de abertura com o
// seu fechamento e devolve o mapa abertura → fechamento. '{' '[' e '}' ']'
// contam juntos. Aspas só abrem string dentro de um contêiner, então texto
// solto antes do JSON não desalinha a varredura.
func matchPairs(s string) map[int]int {
	closes := make(map[int]int)
	var stack []int
	inString := false
	escape := false

	for i := 0; i < len(s); i++ {
		b := s[i]

		if escape {
			escape = false
			continue
		}

		if inString {
			switch b {
			case '\\':
				escape = true
			case '"':
				inString = false
			}
			continue
		}

		switch b {
		case '"':
			inString = len(stack) > 0
		case '{', '[':
			stack = append(stack, i)
		case '}', ']':
			if len(stack) == 0 {
				continue
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			closes[open] = i
		}
	}

	return closes
}

func isOpener(b byte, openers string) bool {
	for i := 0; i < len(openers); i++ {
		if openers[i] == b {
			return true
		}
	}
	return false
}
