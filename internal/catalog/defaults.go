package catalog

import "mattressfit/internal/model"

const (
	audienceChild = "Дитина"
	audienceAdult = "Дорослий"
)

func required(b bool) *bool { return &b }

func showIf(questionID, value string) *model.ShowIfInput {
	return &model.ShowIfInput{QuestionID: questionID, Value: value}
}

func forAdult() *model.ShowIfInput { return showIf("audience", audienceAdult) }
func forChild() *model.ShowIfInput { return showIf("audience", audienceChild) }

func other(label, placeholder string, req bool) *model.OtherInputSpec {
	return &model.OtherInputSpec{Enabled: true, Label: label, Placeholder: placeholder, Required: required(req)}
}

var mattressBases = []string{"ламельний каркас", "тверда основа ліжка", "на іншому матраці", "на підлозі"}

// DefaultQuestions is the catalog a fresh install starts with and the fallback
// when the stored catalog cannot be read.
func DefaultQuestions() []model.QuestionInput {
	return []model.QuestionInput{
		{ID: "audience", Question: "Для кого обираємо матрац?", Type: "radio", Options: []string{audienceChild, audienceAdult}, Required: required(true)},
		{
			ID: "size", Question: "Який розмір матрацу Вам потрібен", Type: "select", Required: required(true),
			Options: []string{
				"80*190", "80*200", "90*200", "90*190",
				"120*190", "120*200", "140*190", "140*200",
				"150*190", "150*200", "160*190", "160*200",
				"180*190", "180*200", "200*200", "свій варіант",
			},
			OtherInput: other("свій варіант", "Вкажіть розмір, наприклад 170*200", true),
		},
		{
			ID: "budget", Question: "Впишіть ціну 'ДО' яку Ви готові витратити!", Type: "radio", Required: required(true),
			Options: []string{"до 5000грн.", "5000-8000грн.", "9000-15000грн.", "можна і більше 15000грн"},
		},

		{ID: "adults_count", Question: "Скільки людей буде спати на матраці?", Type: "radio", Options: []string{"1", "2"}, Required: required(true), ShowIf: forAdult()},
		{ID: "adult_1_weight", Question: "Ваша вага (кг)", Type: "number", Required: required(true), ShowIf: forAdult()},
		{ID: "adult_1_height", Question: "Ваш зріст (см)", Type: "number", Required: required(true), ShowIf: forAdult()},
		{ID: "adult_1_age", Question: "Ваш вік", Type: "number", Required: required(true), ShowIf: forAdult()},
		{ID: "adult_2_weight", Question: "Вага партнера (кг)", Type: "number", Required: required(true), ShowIf: showIf("adults_count", "2")},
		{ID: "adult_2_height", Question: "Зріст партнера (см)", Type: "number", Required: required(true), ShowIf: showIf("adults_count", "2")},
		{ID: "adult_2_age", Question: "Вік партнера", Type: "number", Required: required(true), ShowIf: showIf("adults_count", "2")},

		{ID: "pain", Question: "Чи є у Вас біль під час сну", Type: "radio", Options: []string{"так", "ні"}, Required: required(true), ShowIf: forAdult()},
		{
			ID: "pain_area", Question: "Де саме болить?", Type: "radio", Required: required(true), ShowIf: showIf("pain", "так"),
			Options:    []string{"поперек", "шийний відділ", "грудний відділ", "давить в плече", "просто вся спина", "свій варіант"},
			OtherInput: other("свій варіант", "Опишіть конкретно свій біль або дискомфорт", true),
		},
		{ID: "health_issues", Question: "Чи є у Вас проблеми зі здоров'ям, якщо так, то опишіть конкретно які", Type: "text", Required: required(false), ShowIf: forAdult()},
		{
			ID: "current_mattress", Question: "На якому матраці Ви спите зараз?", Type: "radio", Required: required(true), ShowIf: forAdult(),
			Options:    []string{"пружинний", "безпружинний", "інше (впишіть)"},
			OtherInput: other("інше (впишіть)", "Якщо знаєте назву – впишіть", false),
		},
		{
			ID: "dissatisfaction", Question: "Що саме Вас не влаштовує в матраці на якому спите зараз", Type: "radio", Required: required(true), ShowIf: forAdult(),
			Options:    []string{"просів", "твердий", "м'який", "просто не зручний", "провалююсь", "свій варіант"},
			OtherInput: other("свій варіант", "Напишіть що конкретно Вас не влаштовує в матраці чи дивані на якому спите зараз", true),
		},
		{ID: "firmness", Question: "Вам зручніше спати на м'якому чи твердому?", Type: "radio", Options: []string{"м'який", "твердий", "мабуть середній"}, Required: required(true), ShowIf: forAdult()},
		{ID: "pillow", Question: "На якій подушці любите спати?", Type: "radio", Options: []string{"меморі", "пух", "висока", "маленька", "сплю без подушки"}, Required: required(true), ShowIf: forAdult()},
		{ID: "base", Question: "На чому має лежати матрац", Type: "radio", Options: mattressBases, Required: required(true), ShowIf: forAdult()},
		{ID: "spring_pref", Question: "Віддаєте перевагу пружинним чи безпружинним?", Type: "radio", Options: []string{"тільки пружинні", "тільки безпружинні", "головне щоб комфортно було"}, Required: required(true), ShowIf: forAdult()},
		{ID: "adult_extra", Question: "Особливості Вашого тіла, або Ваші запитання", Type: "text", Required: required(false), ShowIf: forAdult()},

		{ID: "child_age", Question: "Скільки років дитині", Type: "number", Required: required(true), ShowIf: forChild()},
		{ID: "child_weight", Question: "Яка вага дитини (кг)", Type: "number", Required: required(true), ShowIf: forChild()},
		{ID: "child_height", Question: "Який зріст дитини (см)", Type: "number", Required: required(true), ShowIf: forChild()},
		{
			ID: "child_health", Question: "Чи є у дитини проблеми зі здоров'ям?", Type: "radio", Required: required(true), ShowIf: forChild(),
			Options:    []string{"ні", "сколіоз", "лордоз", "кіфоз", "викривлення спини", "інше (пропишіть)"},
			OtherInput: other("інше (пропишіть)", "Вкажіть точний діагноз", false),
		},
		{
			ID: "child_current_mattress", Question: "На чому спить дитина зараз?", Type: "radio", Required: required(true), ShowIf: forChild(),
			Options:    []string{"пружинний", "безпружинний", "диван", "люлька", "інше (впишіть)"},
			OtherInput: other("інше (впишіть)", DefaultOtherPlaceholder, false),
		},
		{ID: "child_current_name", Question: "Назва/модель (за бажанням)", Type: "text", Required: required(false), ShowIf: forChild()},
		{
			ID: "child_dissatisfaction", Question: "Що конкретно не влаштовує зараз під час сну", Type: "radio", Required: required(true), ShowIf: forChild(),
			Options:    []string{"просів", "твердий", "м'який", "дитині не зручний", "свій варіант", "далі"},
			OtherInput: other("свій варіант", "Напишіть що конкретно не влаштовує в матраці чи дивані на якому спить дитина зараз", true),
		},
		{ID: "child_base", Question: "На чому має лежати матрац", Type: "radio", Options: mattressBases, Required: required(true), ShowIf: forChild()},
		{ID: "child_extra", Question: "Особливості дитини / запитання (необов'язково)", Type: "text", Required: required(false), ShowIf: forChild()},
	}
}
