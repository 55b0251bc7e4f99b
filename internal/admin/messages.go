package admin

// noun holds the grammatical forms the admin messages need for one entity.
type noun struct {
	nom       string // "Игрок создан"
	acc       string // "Не удалось создать игрока"
	genPlural string // "список игроков"
	this      string // "Удалить этого игрока?"
}

var nouns = map[string]noun{
	"player": {nom: "Игрок", acc: "игрока", genPlural: "игроков", this: "этого игрока"},
	"match":  {nom: "Матч", acc: "матч", genPlural: "матчей", this: "этот матч"},
}

func nounOf(entity string) noun {
	if n, ok := nouns[entity]; ok {
		return n
	}
	return noun{nom: entity, acc: entity, genPlural: entity, this: entity}
}

// infinitives of the operations, as in "Не удалось создать".
var verbs = map[string]string{
	"create": "создать",
	"update": "обновить",
	"delete": "удалить",
	"edit":   "открыть",
	"filter": "отфильтровать",
}

// past participles, as in "Игрок создан".
var participles = map[string]string{
	"create": "создан",
	"update": "обновлен",
	"delete": "удален",
}

func lookup(m map[string]string, key string) string {
	if v, ok := m[key]; ok {
		return v
	}
	return key
}

func notice(entity, op string) string {
	return nounOf(entity).nom + " " + lookup(participles, op)
}

func deletePrompt(entity string) string {
	return "Удалить " + nounOf(entity).this + "? Это действие нельзя отменить"
}
