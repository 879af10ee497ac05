// Package samples holds the built-in recipe collection served whenever no
// persisted or backend data is available.
package samples

import (
	"math/rand"
	"strings"

	"deliciasmz/models"
)

// IDPrefix marks sample recipes; they never exist as backend rows.
const IDPrefix = "rec_"

const FallbackImage = "https://images.unsplash.com/photo-1543339308-43e59d6b73a6?q=80&w=1000&auto=format&fit=crop"

var FallbackImages = []string{
	"https://images.unsplash.com/photo-1604543519969-e0d2d3122c0c?q=80&w=800&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1598515214211-89d3c73ae83b?q=80&w=800&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1631215569837-293699b87b7a?q=80&w=800&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1512621776951-a57141f2eefd?q=80&w=800&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1476718406336-bb5a9690ee2a?q=80&w=800&auto=format&fit=crop",
	"https://images.unsplash.com/photo-1555939594-58d7cb561ad1?q=80&w=800&auto=format&fit=crop",
}

// Author is the official account credited with every sample recipe.
var Author = models.User{
	ID:     "deliciasmz_official",
	Name:   "DelíciasMZ Oficial",
	Avatar: "https://images.unsplash.com/photo-1577219491135-ce391730fb2c?q=80&w=200&auto=format&fit=crop",
}

var recipes []models.Recipe

func init() {
	recipes = []models.Recipe{
		{
			ID:          "rec_001",
			Title:       "Matapa com Caranguejo",
			Description: "Um dos pratos mais emblemáticos de Moçambique. Folhas de mandioca piladas, cozidas em leite de coco e amendoim.",
			Image:       "https://images.unsplash.com/photo-1604543519969-e0d2d3122c0c?q=80&w=800&auto=format&fit=crop",
			Category:    "Pratos Principais",
			PrepTime:    "1h 30m",
			Servings:    4,
			Ingredients: []string{
				"1kg de folhas de mandioca piladas",
				"500g de amendoim pilado",
				"2 cocos ralados (para leite)",
				"500g de caranguejo limpo",
				"3 dentes de alho",
				"Sal a gosto",
			},
			Instructions: []string{
				"Coloque as folhas de mandioca numa panela com água e deixe ferver até perderem a cor verde viva.",
				"Adicione o alho pilado e o caranguejo.",
				"Junte o leite de coco (primeira e segunda espremedura) e deixe ferver.",
				"Quando o líquido reduzir, adicione o amendoim pilado.",
				"Deixe apurar em fogo baixo mexendo sempre para não pegar no fundo até ficar cremoso.",
				"Sirva com xima ou arroz branco.",
			},
		},
		{
			ID:          "rec_002",
			Title:       "Frango à Zambeziana",
			Description: "Frango grelhado marinado em leite de coco e especiarias, típico da província da Zambézia.",
			Image:       "https://images.unsplash.com/photo-1598515214211-89d3c73ae83b?q=80&w=800&auto=format&fit=crop",
			Category:    "Pratos Principais",
			PrepTime:    "2h",
			Servings:    3,
			Ingredients: []string{
				"1 frango inteiro cortado",
				"2 cocos ralados (leite espesso)",
				"4 dentes de alho",
				"Piri-piri a gosto",
				"Sal e pimenta",
				"Sumo de 1 limão",
			},
			Instructions: []string{
				"Tempere o frango com alho, sal, pimenta, piri-piri e limão. Deixe marinar por 1 hora.",
				"Grelhe o frango no carvão até ficar meio assado.",
				"Prepare o leite de coco espesso.",
				"Vá pincelando o frango com o leite de coco enquanto termina de assar.",
				"Sirva bem quente acompanhado de mucapata ou arroz de coco.",
			},
		},
		{
			ID:          "rec_003",
			Title:       "Badjias (Pastéis de Feijão)",
			Description: "O petisco de rua mais famoso de Maputo. Bolinhos fritos de feijão nhemba.",
			Image:       "https://images.unsplash.com/photo-1593001874117-c99c800e3eb7?q=80&w=800&auto=format&fit=crop",
			Category:    "Petiscos",
			PrepTime:    "45m",
			Servings:    6,
			Ingredients: []string{
				"500g de feijão nhemba",
				"1 cebola picada",
				"Salsa e coentros picados",
				"1 colher de chá de fermento",
				"Óleo para fritar",
				"Sal a gosto",
			},
			Instructions: []string{
				"Deixe o feijão de molho e retire a casca.",
				"Triture o feijão no pilão ou processador até virar uma pasta grossa.",
				"Misture a cebola, as ervas, o sal e o fermento.",
				"Aqueça o óleo.",
				"Forme bolinhas com a mão ou colher e frite até dourarem.",
				"Coma quente, de preferência dentro de um pão (Pão com Badjia).",
			},
		},
		{
			ID:          "rec_004",
			Title:       "Caril de Amendoim com Camarão",
			Description: "Um molho rico e cremoso que combina o doce do amendoim com o sabor do mar.",
			Image:       "https://images.unsplash.com/photo-1631215569837-293699b87b7a?q=80&w=800&auto=format&fit=crop",
			Category:    "Pratos Principais",
			PrepTime:    "50m",
			Servings:    4,
			Ingredients: []string{
				"1kg de camarão limpo",
				"300g de amendoim torrado e moído",
				"2 tomates maduros",
				"1 cebola grande",
				"Leite de coco (opcional)",
				"Especiarias a gosto",
			},
			Instructions: []string{
				"Faça um refogado com cebola e tomate.",
				"Adicione o camarão e deixe cozinhar levemente.",
				"Dissolva o amendoim moído em um pouco de água morna ou leite de coco.",
				"Despeje na panela e deixe ferver em fogo baixo até o óleo do amendoim subir à superfície.",
				"Acerte o sal e sirva com arroz branco soltinho.",
			},
		},
		{
			ID:          "rec_005",
			Title:       "Xima de Milho Branco",
			Description: "A base da alimentação moçambicana. Simples, mas essencial para acompanhar qualquer caril ou matapa.",
			Image:       "https://images.unsplash.com/photo-1621303837174-89787a7d4729?q=80&w=800&auto=format&fit=crop",
			Category:    "Pratos Principais",
			PrepTime:    "20m",
			Servings:    4,
			Ingredients: []string{
				"500g de farinha de milho branco",
				"1 litro de água",
				"Sal (opcional)",
			},
			Instructions: []string{
				"Coloque a água para ferver numa panela.",
				"Quando ferver, retire uma chávena de água quente e reserve.",
				"Vá adicionando a farinha aos poucos, mexendo vigorosamente com uma colher de pau (pau de xima).",
				"Adicione a água reservada se ficar muito dura.",
				"Cozinhe por alguns minutos, batendo a massa contra as paredes da panela até ficar lisa e soltar do fundo.",
				"Sirva quente.",
			},
		},
	}

	for i := range recipes {
		recipes[i].Author = Author
		recipes[i].Normalize()
	}
}

// Recipes returns a fresh deep copy of the sample set.
func Recipes() []models.Recipe {
	out := make([]models.Recipe, len(recipes))
	for i, r := range recipes {
		out[i] = r.Clone()
	}
	return out
}

func IsSample(id string) bool {
	return strings.HasPrefix(id, IDPrefix)
}

func RandomFallbackImage() string {
	return FallbackImages[rand.Intn(len(FallbackImages))]
}
