package ui

const (
	MsgCreatePrompt = "Давай создадим твою анкету! 📝\n\n" +
		"Отправь мне информацию в формате:\n\n" +
		"Имя\n" +
		"Возраст (%d-%d)\n" +
		"Город\n" +
		"Пол (М/Ж)\n" +
		"О себе\n\n" +
		"Например:\n" +
		"Алексей\n" +
		"16\n" +
		"Москва\n" +
		"М\n" +
		"Увлекаюсь программированием"

	MsgProfileExists    = "У тебя уже есть анкета! Используй /profile чтобы её посмотреть."
	MsgProfileCreated   = "✅ Анкета создана и отправлена на модерацию!\n\nАдминистратор проверит её в ближайшее время.\nПосле одобрения ты сможешь смотреть анкеты других пользователей."
	MsgBadFormat        = "Неверный формат. Попробуй ещё раз командой /create"
	MsgAgeOutOfRange    = "Возраст должен быть от %d до %d лет"
	MsgBadGender        = "Не понял пол. Укажи М или Ж и попробуй ещё раз командой /create"
	MsgNeedProfile      = "Сначала создай анкету командой /create"
	MsgNoProfile        = "У тебя ещё нет анкеты. Создай её командой /create"
	MsgNotApproved      = "Твоя анкета ещё не одобрена модератором. Подожди немного!"
	MsgProfileRejected  = "Твоя анкета отклонена модератором, смотреть анкеты нельзя."
	MsgLimitReached     = "Лимит лайков исчерпан (%d/%d). Приходи завтра! 🌙"
	MsgLimitCallback    = "Лимит лайков исчерпан (%d/%d)"
	MsgNoCandidates     = "Пока нет новых анкет. Загляни позже!"
	MsgNoMatches        = "Пока нет взаимных лайков 💔\n\nПродолжай смотреть анкеты!"
	MsgLikeSent         = "❤️ Лайк отправлен!"
	MsgAlreadyMatched   = "💜 У вас уже взаимная симпатия! Напиши: %s"
	MsgMutualLike       = "💜 Взаимная симпатия!\n\nВы можете написать: %s"
	MsgSkipped          = "Используй /browse чтобы смотреть анкеты дальше"
	MsgReportSent       = "Жалоба отправлена модератору. Спасибо!"
	MsgUsage            = "Используй команды: /start, /create, /browse, /matches, /profile, /help"
	MsgNoAccess         = "У вас нет доступа к этой команде"
	MsgUnknownAction    = "Неизвестное действие"
	MsgTryLater         = "Что-то пошло не так. Попробуй позже."
	MsgNoPendingProfile = "✅ Нет анкет на модерации"
	MsgNoPendingReports = "✅ Нет активных жалоб"
	MsgApprovedOwner    = "✅ Твоя анкета одобрена!\n\nТеперь ты можешь смотреть анкеты командой /browse"
	MsgRejectedOwner    = "❌ Твоя анкета отклонена.\n\nВозможные причины:\n- Неподходящее фото\n- Некорректные данные\n\nЕсли считаешь это ошибкой, напиши модератору."
	MsgApprovedMod      = "✅ Анкета %s одобрена"
	MsgRejectedMod      = "❌ Анкета %s отклонена"
	MsgReportResolved   = "✅ Жалоба #%d обработана"
	MsgReportDismissed  = "❌ Жалоба #%d отклонена"
	MsgProfileGone      = "Анкета не найдена"
	MsgReportGone       = "Жалоба не найдена"
	MsgNoUsername       = "нет username"

	BtnSkip    = "❌ Пропустить"
	BtnLike    = "❤️ Лайк"
	BtnReport  = "🚩 Пожаловаться"
	BtnReject  = "❌ Отклонить"
	BtnApprove = "✅ Одобрить"
	BtnDismiss = "❌ Отклонить"
	BtnResolve = "✅ Принять меры"
)
