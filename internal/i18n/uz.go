package i18n

var uz = map[string]string{
	"chooseLang": "🌐 Выбери язык / Tilni tanlang:",
	"hint": "👋 <b>Salom!</b>\n\nMen senga inglizchani intervalli takrorlash usulida o‘rganishga yordam beraman. 🧠\n\n🎯 <b>Qanday ishlaydi?</b>\n1. Sen menga so‘z yuborasan ➕\n2. Men vaqtida eslataman 🔔\n3. Sen qanchalik oson eslaganingni baholaysan ⭐\n\nKetdik? 🚀",
	"askInterval": "⏱ <b>Ritmingni tanla</b>\n\nSo‘zlarni qanchalik tez-tez yuboray?\n\n👇 Daqiqada son yoz ({min} dan {max} gacha).\n<i>Masalan: 15, 30 yoki 60.</i>",

	"onboarding.finished": "🚀 <b>Boshladik!</b>\nInterval: {value} daqiqa.\n\n👇 <b>Birinchi so‘zingni</b> inglizchada yubor.",
	"onboarding.menuTip":  "⚙️ <b>Sozlamalar menyusi</b> pastda paydo bo‘ldi.",

	"btn.settings":    "⚙️ Sozlamalar",
	"btn.stats":       "📊 Natijalar",
	"btn.back":        "⬅️ Orqaga",
	"btn.next":        "Tushunarli, ketdik! 🚀",
	"btn.interval":    "⏱ Interval",
	"btn.cancel":      "❌ Bekor qilish",
	"btn.limit":       "🛑 Limit",
	"btn.notifyOn":    "🔔 Yoqilgan",
	"btn.notifyOff":   "🔕 O‘chirilgan",
	"btn.confirmOk":   "✅ To‘g‘ri",
	"btn.confirmEdit": "✏️ Tuzatish",
	"btn.gradeHard":   "😓 Qiyin",
	"btn.gradeGood":   "🙂 O‘rtacha",
	"btn.gradeEasy":   "😎 Oson",

	"settings.title":            "⚙️ <b>Sozlamalaring</b>",
	"settings.notificationsOn":  "🔔 <b>Bildirishnomalar</b>: Yoqilgan",
	"settings.notificationsOff": "🔕 <b>Bildirishnomalar</b>: O‘chirilgan",
	"settings.intervalLine":     "⏱ <b>Interval</b>: {value} daqiqa",
	"settings.limitLine":        "🛑 <b>Limit</b>: kuniga {value} ta so‘z",

	"settings.interval.ask":        "⏱ <b>Ritmni sozla</b>\n\nHozir: {current} daqiqada bir.\n👇 Yangi son yoz ({min} dan {max} gacha):",
	"settings.limit.ask":           "🛑 <b>Bildirishnomalar limiti</b>\n\nHozir: kuniga {current} ta.\n👇 Yangi limit kirit ({min} dan {max} gacha):",
	"settings.interval.saved":      "✅ <b>Tayyor!</b> Yangi ritm: {value} daqiqa.",
	"settings.limit.saved":         "🛑 <b>Limit yangilandi:</b> {value} ta.",
	"settings.interval.needNumber": "🤔 <b>Son kerak.</b> Masalan: 15",
	"settings.limit.needNumber":    "🤔 <b>Son kirit.</b> Masalan: 30",
	"settings.interval.outRange":   "⚠️ <b>{min} dan {max} daqiqagacha.</b>",
	"settings.limit.outRange":      "⚠️ <b>{min} dan {max} gacha.</b>",

	"add.enter":         "➕ <b>Yangi so‘z</b>\n\nInglizcha so‘z yoz:",
	"add.exists":        "🤓 <b>Allaqachon bor:</b> {en} — {ru}",
	"add.suggest":       "💡 <b>Mening tarjimam:</b> {tr}\n\nTo‘g‘rimi?",
	"add.noSuggest":     "🤷 <b>{en}</b> uchun tarjima topolmadim.\nO‘z variantingni yoz:",
	"add.manual":        "✏️ O‘z tarjimangni yoz:",
	"add.saved":         "✅ <b>Saqladim:</b> {en} — {ru}\nBirinchi takrorlash 5 daqiqadan keyin. ⏱",
	"add.duplicate":     "🤓 <b>{en}</b> so‘zi lug‘atingda allaqachon bor.",
	"add.dailyLimit":    "🛑 <b>Bugungi limit:</b> {limit} ta yangi so‘z.\nErtaga davom etamiz!",
	"add.error":         "😿 So‘zni saqlay olmadim. Yana urinib ko‘r.",
	"add.failSave":      "😿 So‘z yo‘lda yo‘qoldi. Qaytadan boshla: /add",
	"add.cancelled":     "❌ Bekor qildim.",
	"add.confirmPrompt": "👇 Tugmani bos: tasdiqlash, tuzatish yoki bekor qilish.",

	"import.ask":           "📥 .xlsx fayl yubor: birinchi ustun — so‘z, ikkinchisi — tarjima.",
	"import.fetchError":    "❌ Faylni olib bo‘lmadi.",
	"import.downloadError": "❌ Faylni yuklab bo‘lmadi.",
	"import.parseError":    "❌ Faylni o‘qib bo‘lmadi.",
	"import.done":          "📥 Import tugadi.\nQo‘shildi: {added}\nO‘tkazildi: {skipped}",
	"import.errorsLine":    "Xatolar: {count}",

	"worker.verifyPrompt": "🧠 <b>Tarjima qil:</b> {phrase}",
	"worker.answerPrompt": "✍️ Xabar bilan javob ber.",
	"worker.reminder":     "👋 <b>Hey!</b> So‘z hali ham tarjimani kutmoqda. ⏳",
	"worker.skipped":      "💤 <b>O‘tkazib yubordik.</b> Bu so‘zga bir soatdan keyin qaytamiz.",

	"answer.correct":   "✅ <b>To‘g‘ri!</b>",
	"answer.incorrect": "❌ <b>Xato.</b>",
	"answer.correctIs": "To‘g‘ri javob: <b>{answer}</b>",
	"answer.pickGrade": "Eslash qanchalik oson bo‘ldi? 👇",

	"grade.accepted":     "📈 <b>Yozib qo‘ydim!</b>",
	"grade.saved":        "Baho saqlandi",
	"grade.noActive":     "Hozir faol kartochka yo‘q",
	"grade.progress":     "Bugun: {done}/{limit}. {left} ta qoldi. 💪",
	"grade.limitReached": "🏁 Bugungi reja bajarildi!",

	"session.lost": "🔄 Sessiya yo‘qoldi. Qaytadan boshla — so‘z yubor yoki keyingi kartochkani kut.",

	"stats.title":  "📊 <b>Sening natijalaring</b>",
	"stats.words":  "📚 Lug‘atdagi so‘zlar: <b>{count}</b>",
	"stats.due":    "⏳ Takrorlashni kutmoqda: <b>{count}</b>",
	"stats.streak": "🔥 Seriya: <b>{days}</b> kun",
}
