package corpus

// Static Vietnamese vocabulary tables the generator draws from. The phone
// prefixes and district names mirror the live system's validation rules, so
// generated values always pass upstream checks.

var validPhonePrefixes = []string{
	"090", "091", "092", "093", "094", "096", "097", "098", "099",
	"032", "033", "034", "035", "036", "037", "038", "039",
	"070", "076", "077", "078", "079",
	"081", "082", "083", "084", "085", "086", "088", "089",
	"052", "053", "054", "055", "056", "058", "059",
}

var streets = []string{
	"Nguyễn Huệ", "Lê Lợi", "Trần Hưng Đạo", "Nguyễn Trãi", "Võ Văn Tần",
	"Điện Biên Phủ", "Cách Mạng Tháng 8", "Hai Bà Trưng", "Lý Tự Trọng",
}

var hcmcDistricts = []string{
	"Quận 1", "Quận 3", "Quận 4", "Quận 5", "Quận 6", "Quận 7",
	"Quận 8", "Quận 10", "Quận 11", "Quận 12", "Quận Bình Thạnh",
	"Quận Gò Vấp", "Quận Phú Nhuận", "Quận Tân Bình", "Quận Tân Phú",
	"Huyện Bình Chánh", "Huyện Củ Chi", "Huyện Hóc Môn",
	"Huyện Nhà Bè", "Thành phố Thủ Đức",
}

var fireVariations = []string{
	"Cháy nhà bếp, lửa lan nhanh!",
	"Chập điện gây cháy phòng ngủ!",
	"Bình gas phát nổ, cháy lớn!",
	"Cháy kho hàng, khói đen nhiều!",
	"Xe ô tô bốc cháy trong garage!",
	"Cháy tầng hầm chung cư!",
	"Cháy do đốt vàng mã!",
}

type medicalScript struct {
	initial         string
	types           []string
	firstAidPhrases []string
	peopleMessage   string
	expectedPeople  map[string]any
}

var medicalScripts = []medicalScript{
	{
		initial:         "Có người bị tai nạn giao thông! Người ta nằm trên đường, chảy máu nhiều!",
		types:           []string{"MEDICAL"},
		firstAidPhrases: []string{"chảy máu", "cầm máu"},
		peopleMessage:   "2 người bị thương, 1 người nguy kịch",
		expectedPeople:  map[string]any{"total": 2, "injured": 2, "critical": 1},
	},
	{
		initial:         "Bà ngoại tôi bị đột quỵ! Một bên mặt méo, nói không rõ!",
		types:           []string{"MEDICAL"},
		firstAidPhrases: []string{"đột quỵ", "nằm nghiêng"},
		peopleMessage:   "1 người",
		expectedPeople:  map[string]any{"total": 1, "critical": 1},
	},
	{
		initial:         "Có người đang lên cơn đau tim! Đau ngực, khó thở!",
		types:           []string{"MEDICAL"},
		firstAidPhrases: []string{"đau tim", "nghỉ ngơi"},
		peopleMessage:   "1 người",
		expectedPeople:  map[string]any{"total": 1},
	},
	{
		initial:         "Trẻ con bị sặc đồ ăn! Mặt tím tái, không thở được!",
		types:           []string{"MEDICAL"},
		firstAidPhrases: []string{"sặc", "vỗ lưng"},
		peopleMessage:   "1 bé",
		expectedPeople:  map[string]any{"total": 1, "critical": 1},
	},
	{
		initial:         "Có người ngã từ tầng 2 xuống! Nằm bất động!",
		types:           []string{"MEDICAL"},
		firstAidPhrases: []string{"chấn thương", "không di chuyển"},
		peopleMessage:   "1 người",
		expectedPeople:  map[string]any{"total": 1, "critical": 1},
	},
	{
		initial:         "Người bị điện giật! Đang bất tỉnh!",
		types:           []string{"MEDICAL", "FIRE_RESCUE"},
		firstAidPhrases: []string{"điện giật", "ngắt nguồn điện"},
		peopleMessage:   "1 người",
		expectedPeople:  map[string]any{"total": 1, "critical": 1},
	},
	{
		initial:         "Có người bị rắn cắn! Chân sưng to, đau nhiều!",
		types:           []string{"MEDICAL"},
		firstAidPhrases: []string{"rắn cắn", "giữ yên"},
		peopleMessage:   "1 người",
		expectedPeople:  map[string]any{"total": 1},
	},
	{
		initial:         "Tai nạn xe khách! Nhiều người bị thương!",
		types:           []string{"MEDICAL"},
		firstAidPhrases: []string{"tai nạn", "cầm máu"},
		peopleMessage:   "Khoảng 10 người, 3 người nặng",
		expectedPeople:  map[string]any{"total": 10, "injured": 7, "critical": 3},
	},
	{
		initial:         "Có người bị ngộ độc thực phẩm! Nôn mửa, co giật!",
		types:           []string{"MEDICAL"},
		firstAidPhrases: []string{"ngộ độc", "giữ mẫu"},
		peopleMessage:   "4 người cùng bàn",
		expectedPeople:  map[string]any{"total": 4},
	},
	{
		initial:         "Người bị đuối nước! Vừa vớt lên, không thở!",
		types:           []string{"MEDICAL", "FIRE_RESCUE"},
		firstAidPhrases: []string{"đuối nước", "hô hấp nhân tạo"},
		peopleMessage:   "1 người",
		expectedPeople:  map[string]any{"total": 1, "critical": 1},
	},
}

type securityScript struct {
	initial string
	types   []string
	urgency string
}

var securityScripts = []securityScript{
	{"Có kẻ trộm đang đột nhập vào nhà tôi! Tôi đang trốn trong phòng!", []string{"SECURITY"}, "HIGH"},
	{"Đang bị cướp! Có dao! Cứu tôi với!", []string{"SECURITY"}, "CRITICAL"},
	{"Có nhóm người đánh nhau ngoài đường, đâm chém nhau!", []string{"SECURITY", "MEDICAL"}, "CRITICAL"},
	{"Có người say rượu đang đập phá quán, đe dọa mọi người!", []string{"SECURITY"}, "HIGH"},
	{"Tôi phát hiện có người đang rình rập trước nhà, rất đáng ngờ!", []string{"SECURITY"}, "MEDIUM"},
	{"Bạo lực gia đình! Chồng đang đánh vợ, nghe tiếng la hét!", []string{"SECURITY", "MEDICAL"}, "CRITICAL"},
	{"Có vụ cướp ngân hàng đang xảy ra!", []string{"SECURITY"}, "CRITICAL"},
	{"Nhóm thanh niên đua xe, gây rối trật tự!", []string{"SECURITY"}, "HIGH"},
}

var authenticatedEmergencies = []struct {
	message string
	types   []string
}{
	{"Cháy nhà tôi!", []string{"FIRE_RESCUE"}},
	{"Có tai nạn giao thông!", []string{"MEDICAL"}},
	{"Có kẻ trộm!", []string{"SECURITY"}},
	{"Người nhà bị đột quỵ!", []string{"MEDICAL"}},
	{"Có vụ đánh nhau!", []string{"SECURITY", "MEDICAL"}},
}

type singleScript struct {
	id       string
	category string
	input    string
}

var singleScripts = []singleScript{
	{"SINGLE_TYPE_001", "emergency_type_detection", "Cháy nhà! Lửa đang lan sang nhà bên cạnh!"},
	{"SINGLE_TYPE_002", "emergency_type_detection", "Có người bị đột quỵ, cần cấp cứu gấp!"},
	{"SINGLE_TYPE_003", "emergency_type_detection", "Nhà tôi bị trộm đột nhập!"},
	{"SINGLE_TYPE_004", "emergency_type_detection", "Vừa có vụ nổ bình gas, có người bị bỏng!"},
	{"SINGLE_AID_001", "first_aid_guidance", "Người nhà tôi bị bỏng nước sôi, phải làm gì bây giờ?"},
	{"SINGLE_AID_002", "first_aid_guidance", "Có người ngưng thở, tôi nên sơ cứu thế nào?"},
	{"SINGLE_AID_003", "first_aid_guidance", "Em bé bị sặc sữa, tím tái rồi!"},
	{"SINGLE_FLOW_001", "conversation_flow", "Alo, tôi cần báo một vụ tai nạn"},
	{"SINGLE_FLOW_002", "conversation_flow", "Xin chào, đây có phải tổng đài 112 không?"},
	{"SINGLE_PEOPLE_001", "affected_people", "Có 3 người bị thương, 1 người bất tỉnh"},
	{"SINGLE_PEOPLE_002", "affected_people", "Chỉ một mình tôi bị nạn thôi"},
	{"SINGLE_PEOPLE_003", "affected_people", "Khoảng chục người, tôi không đếm được"},
	{"SINGLE_CONF_001", "confirmation", "Đúng rồi, thông tin chính xác"},
	{"SINGLE_CONF_002", "confirmation", "Khoan đã, tôi muốn sửa lại địa chỉ"},
	{"SINGLE_AUTH_001", "authenticated_user", "Cháy nhà tôi! Dùng số điện thoại đã lưu của tôi nhé"},
	{"SINGLE_AUTH_002", "authenticated_user", "Tôi là người dùng đã đăng ký, có tai nạn trước nhà"},
	{"SINGLE_EDGE_001", "edge_cases", "asdkjhaskjdh"},
	{"SINGLE_EDGE_002", "edge_cases", "Tôi muốn đặt pizza"},
	{"SINGLE_EDGE_003", "edge_cases", "cuu voi chay nha o q1 hcm"},
	{"SINGLE_EDGE_004", "edge_cases", "Cứu!!! Nhanh lên!!!"},
}
