package prompt

// Anchor lexicon: domain-specific vocabulary injected into prompts to
// steer output away from generic phrasing. Anchors are looked up per
// MBTI code and per Enneagram type, combined, and capped at six total.
// A missing entry simply yields fewer anchors — never an error.

const maxAnchors = 6

var mbtiAnchorsZH = map[string][]string{
	"INTJ": {"架构感", "长线布局", "独立判断"},
	"INTP": {"概念拆解", "原理癖", "思想实验"},
	"ENTJ": {"推进力", "资源调度", "目标锚定"},
	"ENTP": {"反向论证", "可能性跳跃", "规则试探"},
	"INFJ": {"洞察直觉", "意义导向", "静默影响"},
	"INFP": {"价值内核", "诗性表达", "理想校准"},
	"ENFJ": {"共鸣带动", "成全他人", "氛围编织"},
	"ENFP": {"火花联想", "真诚炽热", "边界跳脱"},
	"ISTJ": {"秩序感", "履约可靠", "事实存档"},
	"ISFJ": {"细节守护", "默默托底", "传统温度"},
	"ESTJ": {"章法执行", "责任担纲", "效率管控"},
	"ESFJ": {"照拂周全", "关系黏合", "集体归属"},
	"ISTP": {"手感理性", "临场拆解", "冷静留白"},
	"ISFP": {"感官审美", "当下沉浸", "温柔倔强"},
	"ESTP": {"即刻行动", "风险嗅觉", "现场掌控"},
	"ESFP": {"舞台感", "感染力", "此刻尽兴"},
}

var mbtiAnchorsEN = map[string][]string{
	"INTJ": {"systems blueprint", "long-game", "independent verdict"},
	"INTP": {"first principles", "conceptual teardown", "thought experiment"},
	"ENTJ": {"forward drive", "resource marshaling", "goal lock"},
	"ENTP": {"devil's advocacy", "possibility leap", "rule probing"},
	"INFJ": {"quiet foresight", "meaning compass", "subtle influence"},
	"INFP": {"inner compass", "poetic register", "ideal calibration"},
	"ENFJ": {"resonance", "others-first lift", "atmosphere weaving"},
	"ENFP": {"spark association", "earnest blaze", "boundary hopping"},
	"ISTJ": {"order instinct", "kept promises", "fact ledger"},
	"ISFJ": {"detail guardianship", "quiet backstop", "warm tradition"},
	"ESTJ": {"playbook execution", "duty shouldering", "efficiency control"},
	"ESFJ": {"thorough care", "relational glue", "belonging"},
	"ISTP": {"hands-on reason", "on-the-spot teardown", "cool detachment"},
	"ISFP": {"sensory aesthetic", "present immersion", "gentle stubbornness"},
	"ESTP": {"immediate action", "risk scent", "room command"},
	"ESFP": {"stage presence", "infectious energy", "seize the moment"},
}

var enneagramAnchorsZH = map[string][]string{
	"1": {"内在标尺", "修正冲动"},
	"2": {"给予雷达", "被需要感"},
	"3": {"成就引擎", "形象管理"},
	"4": {"独特性执念", "情绪深潜"},
	"5": {"知识囤积", "能量省用"},
	"6": {"风险预演", "忠诚试探"},
	"7": {"快乐规划", "痛感绕行"},
	"8": {"掌控本能", "强度偏好"},
	"9": {"和平惯性", "自我淡出"},
}

var enneagramAnchorsEN = map[string][]string{
	"1": {"inner yardstick", "correction reflex"},
	"2": {"giving radar", "needed-ness"},
	"3": {"achievement engine", "image curation"},
	"4": {"uniqueness claim", "emotional deep-dive"},
	"5": {"knowledge hoarding", "energy budgeting"},
	"6": {"risk rehearsal", "loyalty testing"},
	"7": {"joy planning", "pain detour"},
	"8": {"control instinct", "intensity preference"},
	"9": {"peace inertia", "self-fading"},
}

// Anchors returns the anchor words for an MBTI/Enneagram combination:
// the MBTI entry, then the main type entry, then the first wing word,
// capped at six. mbti must already be the normalized 4-letter base code.
func Anchors(lang, mbti, mainType, subtype string) []string {
	mbtiTable, ennTable := mbtiAnchorsEN, enneagramAnchorsEN
	if lang == "zh" {
		mbtiTable, ennTable = mbtiAnchorsZH, enneagramAnchorsZH
	}

	var out []string
	out = append(out, mbtiTable[mbti]...)
	out = append(out, ennTable[mainType]...)
	if w := ennTable[subtype]; len(w) > 0 {
		out = append(out, w[0])
	}
	if len(out) > maxAnchors {
		out = out[:maxAnchors]
	}
	return out
}
