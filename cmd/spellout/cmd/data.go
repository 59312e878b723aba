package cmd

// englishRules is the built-in rule definition: English cardinals,
// ordinals, and common fractions. A --rules file replaces it entirely.
const englishRules = `%cardinal:
    -x: minus >>;
    x.x: << point >>;
    0.x: point >>;
    zero; one; two; three; four; five; six; seven; eight; nine;
    ten; eleven; twelve; thirteen; fourteen; fifteen; sixteen;
    seventeen; eighteen; nineteen;
    20: twenty[->>];
    30: thirty[->>];
    40: forty[->>];
    50: fifty[->>];
    60: sixty[->>];
    70: seventy[->>];
    80: eighty[->>];
    90: ninety[->>];
    100: << hundred[ >>];
    1000: << thousand[ >>];
    1000000: << million[ >>];
    1000000000: << billion[ >>];
    1000000000000: << trillion[ >>];
%ordinal:
    zeroth; first; second; third; fourth; fifth; sixth; seventh;
    eighth; ninth;
    tenth; eleventh; twelfth; thirteenth; fourteenth; fifteenth;
    sixteenth; seventeenth; eighteenth; nineteenth;
    20: twentieth; twenty->>;
    30: thirtieth; thirty->>;
    40: fortieth; forty->>;
    50: fiftieth; fifty->>;
    60: sixtieth; sixty->>;
    70: seventieth; seventy->>;
    80: eightieth; eighty->>;
    90: ninetieth; ninety->>;
    100: <%cardinal< hundredth; <%cardinal< hundred >>;
    1000: <%cardinal< thousandth; <%cardinal< thousand >>;
    1000000: <%cardinal< millionth; <%cardinal< million >>;
%fraction:
    x.0: =%cardinal=;
    x.x: << and >%%frac>;
    0.x: >%%frac>;
%%frac:
    2: one half;
    2: <%cardinal< halves;
    3: one third;
    3: <%cardinal< thirds;
    4: one quarter;
    4: <%cardinal< quarters;
    5: one fifth;
    5: <%cardinal< fifths;
    6: one sixth;
    6: <%cardinal< sixths;
    8: one eighth;
    8: <%cardinal< eighths;
    10: one tenth;
    10: <%cardinal< tenths;
`
