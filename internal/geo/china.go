// Package geo holds the static China province and city reference data
// backing the weather widget's location picker.
package geo

// Province is a province-level region with its prefecture cities
type Province struct {
	Name   string   `json:"name"`
	Cities []string `json:"cities"`
}

var chinaProvinces = []Province{
	{Name: "北京", Cities: []string{"北京市"}},
	{Name: "上海", Cities: []string{"上海市"}},
	{Name: "天津", Cities: []string{"天津市"}},
	{Name: "重庆", Cities: []string{"重庆市"}},
	{Name: "河北", Cities: []string{"石家庄市", "唐山市", "秦皇岛市", "邯郸市", "保定市", "张家口市", "承德市", "沧州市", "廊坊市", "衡水市", "邢台市"}},
	{Name: "山西", Cities: []string{"太原市", "大同市", "阳泉市", "长治市", "晋城市", "朔州市", "晋中市", "运城市", "忻州市", "临汾市", "吕梁市"}},
	{Name: "内蒙古", Cities: []string{"呼和浩特市", "包头市", "乌海市", "赤峰市", "通辽市", "鄂尔多斯市", "呼伦贝尔市"}},
	{Name: "辽宁", Cities: []string{"沈阳市", "大连市", "鞍山市", "抚顺市", "本溪市", "丹东市", "锦州市", "营口市", "盘锦市", "葫芦岛市"}},
	{Name: "吉林", Cities: []string{"长春市", "吉林市", "四平市", "辽源市", "通化市", "白山市", "松原市", "白城市"}},
	{Name: "黑龙江", Cities: []string{"哈尔滨市", "齐齐哈尔市", "鸡西市", "鹤岗市", "大庆市", "伊春市", "佳木斯市", "牡丹江市", "黑河市", "绥化市"}},
	{Name: "江苏", Cities: []string{"南京市", "无锡市", "徐州市", "常州市", "苏州市", "南通市", "连云港市", "淮安市", "盐城市", "扬州市", "镇江市", "泰州市", "宿迁市"}},
	{Name: "浙江", Cities: []string{"杭州市", "宁波市", "温州市", "嘉兴市", "湖州市", "绍兴市", "金华市", "衢州市", "舟山市", "台州市", "丽水市"}},
	{Name: "安徽", Cities: []string{"合肥市", "芜湖市", "蚌埠市", "淮南市", "马鞍山市", "淮北市", "铜陵市", "安庆市", "黄山市", "滁州市", "阜阳市", "宿州市", "六安市", "亳州市", "池州市", "宣城市"}},
	{Name: "福建", Cities: []string{"福州市", "厦门市", "莆田市", "三明市", "泉州市", "漳州市", "南平市", "龙岩市", "宁德市"}},
	{Name: "江西", Cities: []string{"南昌市", "景德镇市", "萍乡市", "九江市", "新余市", "鹰潭市", "赣州市", "吉安市", "宜春市", "抚州市", "上饶市"}},
	{Name: "山东", Cities: []string{"济南市", "青岛市", "淄博市", "枣庄市", "东营市", "烟台市", "潍坊市", "济宁市", "泰安市", "威海市", "日照市", "临沂市", "德州市", "聊城市", "滨州市", "菏泽市"}},
	{Name: "河南", Cities: []string{"郑州市", "开封市", "洛阳市", "平顶山市", "安阳市", "鹤壁市", "新乡市", "焦作市", "濮阳市", "许昌市", "漯河市", "三门峡市", "南阳市", "商丘市", "信阳市", "周口市", "驻马店市"}},
	{Name: "湖北", Cities: []string{"武汉市", "黄石市", "十堰市", "宜昌市", "襄阳市", "鄂州市", "荆门市", "孝感市", "荆州市", "黄冈市", "咸宁市", "随州市"}},
	{Name: "湖南", Cities: []string{"长沙市", "株洲市", "湘潭市", "衡阳市", "邵阳市", "岳阳市", "常德市", "张家界市", "益阳市", "郴州市", "永州市", "怀化市", "娄底市"}},
	{Name: "广东", Cities: []string{"广州市", "深圳市", "珠海市", "汕头市", "佛山市", "韶关市", "湛江市", "肇庆市", "江门市", "茂名市", "惠州市", "梅州市", "汕尾市", "河源市", "阳江市", "清远市", "东莞市", "中山市", "潮州市", "揭阳市", "云浮市"}},
	{Name: "广西", Cities: []string{"南宁市", "柳州市", "桂林市", "梧州市", "北海市", "防城港市", "钦州市", "贵港市", "玉林市", "百色市", "贺州市", "河池市", "来宾市", "崇左市"}},
	{Name: "海南", Cities: []string{"海口市", "三亚市", "三沙市", "儋州市"}},
	{Name: "四川", Cities: []string{"成都市", "自贡市", "攀枝花市", "泸州市", "德阳市", "绵阳市", "广元市", "遂宁市", "内江市", "乐山市", "南充市", "眉山市", "宜宾市", "广安市", "达州市", "雅安市", "巴中市", "资阳市"}},
	{Name: "贵州", Cities: []string{"贵阳市", "六盘水市", "遵义市", "安顺市", "毕节市", "铜仁市"}},
	{Name: "云南", Cities: []string{"昆明市", "曲靖市", "玉溪市", "保山市", "昭通市", "丽江市", "普洱市", "临沧市"}},
	{Name: "西藏", Cities: []string{"拉萨市", "日喀则市", "昌都市", "林芝市", "山南市", "那曲市"}},
	{Name: "陕西", Cities: []string{"西安市", "铜川市", "宝鸡市", "咸阳市", "渭南市", "延安市", "汉中市", "榆林市", "安康市", "商洛市"}},
	{Name: "甘肃", Cities: []string{"兰州市", "嘉峪关市", "金昌市", "白银市", "天水市", "武威市", "张掖市", "平凉市", "酒泉市", "庆阳市", "定西市", "陇南市"}},
	{Name: "青海", Cities: []string{"西宁市", "海东市"}},
	{Name: "宁夏", Cities: []string{"银川市", "石嘴山市", "吴忠市", "固原市", "中卫市"}},
	{Name: "新疆", Cities: []string{"乌鲁木齐市", "克拉玛依市", "吐鲁番市", "哈密市"}},
	{Name: "香港", Cities: []string{"香港"}},
	{Name: "澳门", Cities: []string{"澳门"}},
	{Name: "台湾", Cities: []string{"台北市", "高雄市", "台中市", "台南市"}},
}

// Provinces returns the full province list in display order
func Provinces() []Province {
	return chinaProvinces
}

// CitiesOf returns the cities of a province, or nil if unknown
func CitiesOf(province string) []string {
	for _, p := range chinaProvinces {
		if p.Name == province {
			return p.Cities
		}
	}
	return nil
}
